package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateUserRequest struct {
	Name     string     `json:"name" binding:"required,min=3,max=100"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     UserRole   `json:"role" binding:"required,oneof=admin regular"`
	Status   UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	DOB      *time.Time `json:"dob"`
	Phone    string     `json:"phone"`
	Address  string     `json:"address"`
}

// Pointer fields distinguish "absent" from "set to zero value".
// An empty or absent password leaves the stored hash untouched.
type UpdateUserRequest struct {
	Name     *string     `json:"name" binding:"omitempty,min=3,max=100"`
	Email    *string     `json:"email" binding:"omitempty,email"`
	Password *string     `json:"password" binding:"omitempty,min=6"`
	Role     *UserRole   `json:"role" binding:"omitempty,oneof=admin regular"`
	Status   *UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	DOB      *time.Time  `json:"dob"`
	Phone    *string     `json:"phone"`
	Address  *string     `json:"address"`
}

type UpdateProfileRequest struct {
	Name    *string    `json:"name" binding:"omitempty,min=3,max=100"`
	DOB     *time.Time `json:"dob"`
	Phone   *string    `json:"phone"`
	Address *string    `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UserListParams struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Role        string `form:"role"`
	Status      string `form:"status"`
	CreatedFrom string `form:"created_from"`
	CreatedTo   string `form:"created_to"`
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=10"`
}

type BulkUserActionRequest struct {
	Action  string `json:"action" binding:"required,oneof=unlock delete"`
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
}

type CreatePostRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description string     `json:"description" binding:"required"`
	Status      PostStatus `json:"status" binding:"oneof=0 1"`
	Category    string     `json:"category"`
	Tags        string     `json:"tags"`
}

type UpdatePostRequest struct {
	Title       *string     `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string     `json:"description"`
	Status      *PostStatus `json:"status" binding:"omitempty,oneof=0 1"`
	Category    *string     `json:"category"`
	Tags        *string     `json:"tags"`
}

type PostListParams struct {
	Status   *PostStatus `form:"status"`
	Creator  uint        `form:"creator"`
	Category string      `form:"category"`
	Search   string      `form:"search"`
	Page     int         `form:"page,default=1"`
	Limit    int         `form:"limit,default=10"`
}

type BulkStatusRequest struct {
	PostIDs []uint     `json:"post_ids" binding:"required,min=1"`
	Status  PostStatus `json:"status" binding:"oneof=0 1"`
}

type UserStatistics struct {
	Total        int64 `json:"total_users"`
	Active       int64 `json:"active_users"`
	Inactive     int64 `json:"inactive_users"`
	Locked       int64 `json:"locked_users"`
	Admins       int64 `json:"admin_users"`
	Regulars     int64 `json:"regular_users"`
	CreatedToday int64 `json:"users_today"`
	CreatedMonth int64 `json:"users_this_month"`
}

type PostStatistics struct {
	Total        int64   `json:"total_posts"`
	Published    int64   `json:"published_posts"`
	Draft        int64   `json:"draft_posts"`
	CreatedToday int64   `json:"posts_today"`
	CreatedMonth int64   `json:"posts_this_month"`
	TotalViews   int64   `json:"total_views"`
	AverageViews float64 `json:"average_views"`
	Categories   int64   `json:"categories_count"`
}

type AdminDashboard struct {
	UserStatistics *UserStatistics `json:"user_statistics"`
	PostStatistics *PostStatistics `json:"post_statistics"`
	RecentPosts    []Post          `json:"recent_posts"`
	PopularPosts   []Post          `json:"popular_posts"`
	RecentUsers    []User          `json:"recent_users"`
}

type UserDashboard struct {
	TotalPosts     int64  `json:"total_posts"`
	PublishedPosts int64  `json:"published_posts"`
	DraftPosts     int64  `json:"draft_posts"`
	TotalViews     int64  `json:"total_views"`
	RecentPosts    []Post `json:"recent_posts"`
	PopularPosts   []Post `json:"popular_posts"`
}

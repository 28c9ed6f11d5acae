package models

import (
	"time"

	"gorm.io/gorm"
)

type PostStatus int

const (
	PostDraft     PostStatus = 0
	PostPublished PostStatus = 1
)

type Post struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      PostStatus `json:"status" gorm:"default:0"`
	Category    string     `json:"category"`
	Tags        string     `json:"tags"`
	Views       int64      `json:"views" gorm:"default:0"`

	CreateUserID  uint  `json:"create_user_id" gorm:"not null"`
	Creator       *User `json:"creator,omitempty" gorm:"foreignKey:CreateUserID"`
	UpdatedUserID *uint `json:"updated_user_id"`
	Updater       *User `json:"updater,omitempty" gorm:"foreignKey:UpdatedUserID"`
	DeletedUserID *uint `json:"deleted_user_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *Post) IsPublished() bool {
	return p.Status == PostPublished
}

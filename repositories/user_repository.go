package repositories

import (
	"strings"
	"time"

	"postboard/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(req models.CreateUserRequest, actorID *uint) (*models.User, error)
	Update(id uint, req models.UpdateUserRequest, actorID uint) (*models.User, error)
	UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error)
	UpdateProfilePath(id uint, path *string, actorID uint) error
	ChangePassword(id uint, password string) error
	Save(user *models.User) error
	RecordFailedLogin(id uint, threshold int) (bool, error)
	SoftDelete(id uint, deleterID uint) error
	GetList(params models.UserListParams) ([]models.User, int64, error)
	GetRecent(limit int) ([]models.User, error)
	Statistics() (*models.UserStatistics, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	return &user, err
}

// emailTaken reports whether a live user other than excludeID already holds
// the address. Soft-deleted rows do not block reuse.
func (r *userRepository) emailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(req models.CreateUserRequest, actorID *uint) (*models.User, error) {
	taken, err := r.emailTaken(req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewFieldError("email", "The email has already been taken.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         req.Role,
		Status:       status,
		DOB:          req.DOB,
		Phone:        req.Phone,
		Address:      req.Address,
		CreateUserID: actorID,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(id uint, req models.UpdateUserRequest, actorID uint) (*models.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_user_id": actorID,
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		taken, err := r.emailTaken(*req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewFieldError("email", "The email has already been taken.")
		}
		updates["email"] = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.DOB != nil {
		updates["dob"] = *req.DOB
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if err := r.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *userRepository) UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Profile self-update: the actor is the user themselves.
	updates := map[string]interface{}{
		"updated_user_id": id,
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DOB != nil {
		updates["dob"] = *req.DOB
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if err := r.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *userRepository) UpdateProfilePath(id uint, path *string, actorID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"profile_path":    path,
		"updated_user_id": actorID,
	}).Error
}

func (r *userRepository) ChangePassword(id uint, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":        string(hashed),
		"updated_user_id": id,
	}).Error
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// RecordFailedLogin counts a failed authentication attempt. Both steps are
// single UPDATE statements, never read-modify-write, so concurrent wrong
// passwords on separate connections cannot lose an increment or skip the
// threshold lock. Returns true when this call locked the account.
func (r *userRepository) RecordFailedLogin(id uint, threshold int) (bool, error) {
	now := time.Now()

	var locked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + ?", 1),
			"last_failed_login_at":  now,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		lock := tx.Model(&models.User{}).
			Where("id = ? AND failed_login_attempts >= ? AND lock_flag = ?", id, threshold, false).
			Updates(map[string]interface{}{
				"lock_flag":    true,
				"last_lock_at": now,
			})
		if lock.Error != nil {
			return lock.Error
		}
		locked = lock.RowsAffected > 0
		return nil
	})
	return locked, err
}

// SoftDelete stamps the deleter and the deletion time in one statement. The
// default scope skips already-deleted rows, so a repeat call is a clean
// record-not-found instead of a double delete.
func (r *userRepository) SoftDelete(id uint, deleterID uint) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_user_id": deleterID,
		"deleted_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) GetList(params models.UserListParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})

	if params.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Name)+"%")
	}
	if params.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(params.Email)+"%")
	}
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CreatedFrom != "" {
		if from, err := time.Parse("2006-01-02", params.CreatedFrom); err == nil {
			query = query.Where("created_at >= ?", from)
		}
	}
	if params.CreatedTo != "" {
		if to, err := time.Parse("2006-01-02", params.CreatedTo); err == nil {
			query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(params.Limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) GetRecent(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at desc").Limit(limit).Find(&users).Error
	return users, err
}

// Statistics counts inside one snapshot-isolated transaction so every figure
// comes from the same state; a concurrent insert cannot skew one count
// against another.
func (r *userRepository) Statistics() (*models.UserStatistics, error) {
	stats := &models.UserStatistics{}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err := r.db.Transaction(func(tx *gorm.DB) error {
		counts := []struct {
			dest  *int64
			scope func(*gorm.DB) *gorm.DB
		}{
			{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
			{&stats.Active, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", models.StatusActive) }},
			{&stats.Inactive, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", models.StatusInactive) }},
			{&stats.Locked, func(q *gorm.DB) *gorm.DB { return q.Where("lock_flag = ?", true) }},
			{&stats.Admins, func(q *gorm.DB) *gorm.DB { return q.Where("role = ?", models.RoleAdmin) }},
			{&stats.Regulars, func(q *gorm.DB) *gorm.DB { return q.Where("role = ?", models.RoleRegular) }},
			{&stats.CreatedToday, func(q *gorm.DB) *gorm.DB { return q.Where("created_at >= ?", dayStart) }},
			{&stats.CreatedMonth, func(q *gorm.DB) *gorm.DB { return q.Where("created_at >= ?", monthStart) }},
		}
		for _, c := range counts {
			if err := c.scope(tx.Model(&models.User{})).Count(c.dest).Error; err != nil {
				return err
			}
		}
		return nil
	}, snapshotTxOptions(r.db)...)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

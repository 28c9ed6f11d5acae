package repositories

import (
	"strings"
	"time"

	"postboard/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	GetByID(id uint) (*models.Post, error)
	Create(req models.CreatePostRequest, creatorID uint) (*models.Post, error)
	Update(id uint, req models.UpdatePostRequest, editorID uint) (*models.Post, error)
	SoftDelete(id uint, deleterID uint) error
	SoftDeleteByUser(userID uint, deleterID uint) error
	GetList(params models.PostListParams) ([]models.Post, int64, error)
	GetByUser(userID uint) ([]models.Post, error)
	CountByUser(userID uint) (int64, error)
	IncrementViews(id uint) error
	BulkUpdateStatus(ids []uint, status models.PostStatus, editorID uint) (int64, error)
	GetRecent(limit int) ([]models.Post, error)
	GetPopular(limit int) ([]models.Post, error)
	Statistics() (*models.PostStatistics, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Creator").Preload("Updater").First(&post, id).Error
	return &post, err
}

// Create takes the creator from the acting principal, never from the request
// body. CreateUserID is fixed here for the life of the post.
func (r *postRepository) Create(req models.CreatePostRequest, creatorID uint) (*models.Post, error) {
	post := &models.Post{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Category:     req.Category,
		Tags:         req.Tags,
		CreateUserID: creatorID,
	}
	if err := r.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Update(id uint, req models.UpdatePostRequest, editorID uint) (*models.Post, error) {
	post, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_user_id": editorID,
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}

	if err := r.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *postRepository) SoftDelete(id uint, deleterID uint) error {
	result := r.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
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

// SoftDeleteByUser is the cascade step of user deletion: one statement marks
// every live post of the user, stamped with the acting deleter.
func (r *postRepository) SoftDeleteByUser(userID uint, deleterID uint) error {
	return r.db.Model(&models.Post{}).Where("create_user_id = ?", userID).Updates(map[string]interface{}{
		"deleted_user_id": deleterID,
		"deleted_at":      time.Now(),
	}).Error
}

func (r *postRepository) GetList(params models.PostListParams) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{}).Preload("Creator")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Creator > 0 {
		query = query.Where("create_user_id = ?", params.Creator)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?",
			search, search, search,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(params.Limit).Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) GetByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("create_user_id = ?", userID).Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("create_user_id = ?", userID).Count(&count).Error
	return count, err
}

// IncrementViews bumps the counter with a single UPDATE; concurrent views on
// the same post never lose an increment.
func (r *postRepository) IncrementViews(id uint) error {
	result := r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BulkUpdateStatus applies to whatever subset of ids still exists and is not
// deleted, and reports how many rows actually changed.
func (r *postRepository) BulkUpdateStatus(ids []uint, status models.PostStatus, editorID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Post{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"status":          status,
		"updated_user_id": editorID,
	})
	return result.RowsAffected, result.Error
}

func (r *postRepository) GetRecent(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Creator").Order("created_at desc").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetPopular(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Creator").Order("views desc").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) Statistics() (*models.PostStatistics, error) {
	stats := &models.PostStatistics{}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err := r.db.Transaction(func(tx *gorm.DB) error {
		model := func() *gorm.DB { return tx.Model(&models.Post{}) }

		if err := model().Count(&stats.Total).Error; err != nil {
			return err
		}
		if err := model().Where("status = ?", models.PostPublished).Count(&stats.Published).Error; err != nil {
			return err
		}
		if err := model().Where("status = ?", models.PostDraft).Count(&stats.Draft).Error; err != nil {
			return err
		}
		if err := model().Where("created_at >= ?", dayStart).Count(&stats.CreatedToday).Error; err != nil {
			return err
		}
		if err := model().Where("created_at >= ?", monthStart).Count(&stats.CreatedMonth).Error; err != nil {
			return err
		}

		var totalViews *int64
		if err := model().Select("SUM(views)").Scan(&totalViews).Error; err != nil {
			return err
		}
		if totalViews != nil {
			stats.TotalViews = *totalViews
		}
		if stats.Total > 0 {
			stats.AverageViews = float64(stats.TotalViews) / float64(stats.Total)
		}

		return model().Where("category <> ''").Distinct("category").Count(&stats.Categories).Error
	}, snapshotTxOptions(r.db)...)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

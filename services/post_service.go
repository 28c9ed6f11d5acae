package services

import (
	"postboard/models"
	"postboard/policy"
	"postboard/repositories"
)

type PostService interface {
	CreatePost(actor policy.Principal, req models.CreatePostRequest) (*models.Post, error)
	GetPost(actor policy.Principal, id uint) (*models.Post, error)
	UpdatePost(actor policy.Principal, id uint, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(actor policy.Principal, id uint) error
	ListPosts(actor policy.Principal, params models.PostListParams) ([]models.Post, int64, error)
	BulkUpdateStatus(actor policy.Principal, req models.BulkStatusRequest) (int64, error)
	Statistics(actor policy.Principal) (*models.PostStatistics, error)
}

type postService struct {
	postRepo repositories.PostRepository
}

func NewPostService(postRepo repositories.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) CreatePost(actor policy.Principal, req models.CreatePostRequest) (*models.Post, error) {
	if d := policy.Decide(actor, policy.ActionCreate, policy.PostResource(0)); !d.Allowed {
		return nil, denied(d)
	}
	// Authorship comes from the principal, never from the request body.
	post, err := s.postRepo.Create(req, actor.ID)
	if err != nil {
		return nil, translateStoreError(err, "Post")
	}
	return post, nil
}

// GetPost counts the view and returns the refreshed record. Every view
// counts, the owner's included.
func (s *postService) GetPost(actor policy.Principal, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, translateStoreError(err, "Post")
	}
	if d := policy.Decide(actor, policy.ActionView, policy.PostResource(post.CreateUserID)); !d.Allowed {
		return nil, denied(d)
	}

	if err := s.postRepo.IncrementViews(id); err != nil {
		return nil, translateStoreError(err, "Post")
	}
	post, err = s.postRepo.GetByID(id)
	if err != nil {
		return nil, translateStoreError(err, "Post")
	}
	return post, nil
}

func (s *postService) UpdatePost(actor policy.Principal, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, translateStoreError(err, "Post")
	}
	if d := policy.Decide(actor, policy.ActionUpdate, policy.PostResource(post.CreateUserID)); !d.Allowed {
		return nil, denied(d)
	}

	post, err = s.postRepo.Update(id, req, actor.ID)
	if err != nil {
		return nil, translateStoreError(err, "Post")
	}
	return post, nil
}

func (s *postService) DeletePost(actor policy.Principal, id uint) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return translateStoreError(err, "Post")
	}
	if d := policy.Decide(actor, policy.ActionDelete, policy.PostResource(post.CreateUserID)); !d.Allowed {
		return denied(d)
	}

	if err := s.postRepo.SoftDelete(id, actor.ID); err != nil {
		return translateStoreError(err, "Post")
	}
	return nil
}

// ListPosts scopes non-admins to their own posts regardless of the requested
// creator filter.
func (s *postService) ListPosts(actor policy.Principal, params models.PostListParams) ([]models.Post, int64, error) {
	if d := policy.Decide(actor, policy.ActionViewAny, policy.PostResource(0)); !d.Allowed {
		return nil, 0, denied(d)
	}
	if actor.Role != models.RoleAdmin {
		params.Creator = actor.ID
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	return s.postRepo.GetList(params)
}

// BulkUpdateStatus restricts non-admins to ids they own, then applies the
// change to whatever subset still exists. Partial application is expected;
// the returned count is what actually changed.
func (s *postService) BulkUpdateStatus(actor policy.Principal, req models.BulkStatusRequest) (int64, error) {
	if d := policy.Decide(actor, policy.ActionUpdate, policy.PostResource(actor.ID)); !d.Allowed {
		return 0, denied(d)
	}

	ids := req.PostIDs
	if actor.Role != models.RoleAdmin {
		own, err := s.postRepo.GetByUser(actor.ID)
		if err != nil {
			return 0, translateStoreError(err, "Post")
		}
		owned := make(map[uint]bool, len(own))
		for _, p := range own {
			owned[p.ID] = true
		}
		filtered := ids[:0]
		for _, id := range ids {
			if owned[id] {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
	}
	if len(ids) == 0 {
		return 0, models.ErrorConflict{Message: "No posts to update."}
	}

	count, err := s.postRepo.BulkUpdateStatus(ids, req.Status, actor.ID)
	if err != nil {
		return 0, translateStoreError(err, "Post")
	}
	return count, nil
}

func (s *postService) Statistics(actor policy.Principal) (*models.PostStatistics, error) {
	if d := policy.Decide(actor, policy.ActionViewAny, policy.PostResource(0)); !d.Allowed {
		return nil, denied(d)
	}
	return s.postRepo.Statistics()
}

package services

import (
	"sort"

	"postboard/models"
	"postboard/policy"
	"postboard/repositories"
)

type DashboardService interface {
	AdminDashboard(actor policy.Principal) (*models.AdminDashboard, error)
	UserDashboard(actor policy.Principal) (*models.UserDashboard, error)
}

type dashboardService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
}

func NewDashboardService(userRepo repositories.UserRepository, postRepo repositories.PostRepository) DashboardService {
	return &dashboardService{userRepo: userRepo, postRepo: postRepo}
}

func (s *dashboardService) AdminDashboard(actor policy.Principal) (*models.AdminDashboard, error) {
	if d := policy.Decide(actor, policy.ActionViewAny, policy.UserResource(0)); !d.Allowed {
		return nil, denied(d)
	}

	userStats, err := s.userRepo.Statistics()
	if err != nil {
		return nil, err
	}
	postStats, err := s.postRepo.Statistics()
	if err != nil {
		return nil, err
	}
	recentPosts, err := s.postRepo.GetRecent(5)
	if err != nil {
		return nil, err
	}
	popularPosts, err := s.postRepo.GetPopular(5)
	if err != nil {
		return nil, err
	}
	recentUsers, err := s.userRepo.GetRecent(5)
	if err != nil {
		return nil, err
	}

	return &models.AdminDashboard{
		UserStatistics: userStats,
		PostStatistics: postStats,
		RecentPosts:    recentPosts,
		PopularPosts:   popularPosts,
		RecentUsers:    recentUsers,
	}, nil
}

func (s *dashboardService) UserDashboard(actor policy.Principal) (*models.UserDashboard, error) {
	posts, err := s.postRepo.GetByUser(actor.ID)
	if err != nil {
		return nil, err
	}

	dash := &models.UserDashboard{}
	var popular []models.Post
	for _, p := range posts {
		dash.TotalPosts++
		if p.Status == models.PostPublished {
			dash.PublishedPosts++
		} else {
			dash.DraftPosts++
		}
		dash.TotalViews += p.Views
	}

	// posts arrive newest first
	if len(posts) > 5 {
		dash.RecentPosts = posts[:5]
	} else {
		dash.RecentPosts = posts
	}

	popular = append(popular, posts...)
	sort.Slice(popular, func(i, j int) bool { return popular[i].Views > popular[j].Views })
	if len(popular) > 5 {
		popular = popular[:5]
	}
	dash.PopularPosts = popular

	return dash, nil
}

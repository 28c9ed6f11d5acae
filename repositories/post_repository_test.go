package repositories

import (
	"sync"
	"testing"

	"postboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePostAuthorship(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	post, err := repo.Create(models.CreatePostRequest{
		Title:       "First Post",
		Description: "hello",
		Status:      models.PostPublished,
		Category:    "news",
		Tags:        "intro,hello",
	}, 7)
	require.NoError(t, err)

	got, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Post", got.Title)
	assert.Equal(t, uint(7), got.CreateUserID)
	assert.EqualValues(t, 0, got.Views)
	assert.True(t, got.IsPublished())
}

func TestUpdatePostNeverChangesCreator(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	post := seedPost(t, repo, "Owned", models.PostDraft, 7)

	newTitle := "Owned, Edited"
	updated, err := repo.Update(post.ID, models.UpdatePostRequest{Title: &newTitle}, 99)
	require.NoError(t, err)

	assert.Equal(t, "Owned, Edited", updated.Title)
	assert.Equal(t, uint(7), updated.CreateUserID)
	require.NotNil(t, updated.UpdatedUserID)
	assert.Equal(t, uint(99), *updated.UpdatedUserID)
}

func TestIncrementViewsConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	post := seedPost(t, repo, "Popular", models.PostPublished, 1)

	const viewers = 20
	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementViews(post.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, viewers, got.Views)
}

func TestIncrementViewsMissingPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	err := repo.IncrementViews(12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSoftDeletePostIdempotence(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	post := seedPost(t, repo, "Doomed", models.PostDraft, 1)

	require.NoError(t, repo.SoftDelete(post.ID, 2))

	_, err := repo.GetByID(post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.SoftDelete(post.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSoftDeleteByUserCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	seedPost(t, repo, "Mine 1", models.PostPublished, 5)
	seedPost(t, repo, "Mine 2", models.PostDraft, 5)
	other := seedPost(t, repo, "Theirs", models.PostPublished, 6)

	require.NoError(t, repo.SoftDeleteByUser(5, 1))

	count, err := repo.CountByUser(5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Untouched author keeps their post.
	_, err = repo.GetByID(other.ID)
	assert.NoError(t, err)

	var deleted []models.Post
	require.NoError(t, db.Unscoped().Where("create_user_id = ?", 5).Find(&deleted).Error)
	require.Len(t, deleted, 2)
	for _, p := range deleted {
		require.NotNil(t, p.DeletedUserID)
		assert.Equal(t, uint(1), *p.DeletedUserID)
	}
}

func TestPostListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	seedPost(t, repo, "Go Concurrency Patterns", models.PostPublished, 1)
	seedPost(t, repo, "Cooking at Home", models.PostDraft, 2)
	_, err := repo.Create(models.CreatePostRequest{
		Title:       "Travel Notes",
		Description: "a trip through go country",
		Status:      models.PostPublished,
		Category:    "travel",
	}, 2)
	require.NoError(t, err)

	published := models.PostPublished
	_, total, err := repo.GetList(models.PostListParams{Status: &published, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.GetList(models.PostListParams{Creator: 2, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.GetList(models.PostListParams{Category: "travel", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// Search spans title and description, case-insensitive.
	posts, total, err := repo.GetList(models.PostListParams{Search: "GO", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)
}

func TestBulkUpdateStatusCountsChangedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	a := seedPost(t, repo, "Bulk A", models.PostDraft, 1)
	b := seedPost(t, repo, "Bulk B", models.PostDraft, 1)
	gone := seedPost(t, repo, "Bulk Gone", models.PostDraft, 1)
	require.NoError(t, repo.SoftDelete(gone.ID, 1))

	count, err := repo.BulkUpdateStatus([]uint{a.ID, b.ID, gone.ID, 9999}, models.PostPublished, 42)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	got, err := repo.GetByID(a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished())
	require.NotNil(t, got.UpdatedUserID)
	assert.Equal(t, uint(42), *got.UpdatedUserID)
}

func TestBulkUpdateStatusEmptyIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	count, err := repo.BulkUpdateStatus(nil, models.PostPublished, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestGetPopularOrdersByViews(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	quiet := seedPost(t, repo, "Quiet", models.PostPublished, 1)
	loud := seedPost(t, repo, "Loud", models.PostPublished, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(loud.ID))
	}
	require.NoError(t, repo.IncrementViews(quiet.ID))

	posts, err := repo.GetPopular(2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Loud", posts[0].Title)
	assert.Equal(t, "Quiet", posts[1].Title)
}

func TestPostStatistics(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	a := seedPost(t, repo, "Stat A", models.PostPublished, 1)
	seedPost(t, repo, "Stat B", models.PostDraft, 1)
	_, err := repo.Create(models.CreatePostRequest{
		Title:       "Stat C",
		Description: "categorized",
		Status:      models.PostPublished,
		Category:    "news",
	}, 2)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.IncrementViews(a.ID))
	}

	stats, err := repo.Statistics()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Published)
	assert.EqualValues(t, 1, stats.Draft)
	assert.EqualValues(t, 4, stats.TotalViews)
	assert.InDelta(t, 4.0/3.0, stats.AverageViews, 0.001)
	assert.EqualValues(t, 1, stats.Categories)
	assert.EqualValues(t, 3, stats.CreatedToday)
}

func TestPostStatisticsEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	stats, err := repo.Statistics()
	require.NoError(t, err)

	assert.EqualValues(t, 0, stats.Total)
	assert.EqualValues(t, 0, stats.TotalViews)
	assert.EqualValues(t, 0, stats.AverageViews)
}

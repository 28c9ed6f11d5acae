package services

import (
	"errors"
	"testing"

	"postboard/models"
	"postboard/policy"
	"postboard/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	regular := f.createUser(t, "Regular", "regular@example.com", models.RoleRegular)

	_, err := f.users.CreateUser(asPrincipal(regular), models.CreateUserRequest{
		Name:     "Intruder",
		Email:    "intruder@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	})

	var forbidden models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestCreateUserStampsActor(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	created, err := f.users.CreateUser(asPrincipal(admin), models.CreateUserRequest{
		Name:     "Hired",
		Email:    "hired@example.com",
		Password: "password123",
		Role:     models.RoleRegular,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CreateUserID)
	assert.Equal(t, admin.ID, *created.CreateUserID)
}

func TestGetUserSelfAndForeign(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)
	bob := f.createUser(t, "Bob", "bob@example.com", models.RoleRegular)

	got, err := f.users.GetUser(asPrincipal(alice), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = f.users.GetUser(asPrincipal(alice), bob.ID)
	var forbidden models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestDeleteUserCascadesPosts(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	target := f.createUser(t, "Target", "target@example.com", models.RoleRegular)

	for _, title := range []string{"One", "Two", "Three"} {
		f.createPost(t, title, models.PostPublished, target.ID)
	}

	require.NoError(t, f.users.DeleteUser(asPrincipal(admin), target.ID))

	_, err := f.userRepo.GetByID(target.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := f.postRepo.CountByUser(target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Every cascaded post carries the acting admin as deleter.
	var deleted []models.Post
	require.NoError(t, f.db.Unscoped().Where("create_user_id = ?", target.ID).Find(&deleted).Error)
	require.Len(t, deleted, 3)
	for _, p := range deleted {
		require.NotNil(t, p.DeletedUserID)
		assert.Equal(t, admin.ID, *p.DeletedUserID)
	}
}

func TestDeleteSelfConflict(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	err := f.users.DeleteUser(asPrincipal(admin), admin.ID)

	var conflict models.ErrorConflict
	require.ErrorAs(t, err, &conflict)

	// Still there.
	_, err = f.userRepo.GetByID(admin.ID)
	assert.NoError(t, err)
}

// cascadeFailRepo wraps a real post repository but fails the cascade step,
// standing in for a mid-transaction storage fault.
type cascadeFailRepo struct {
	repositories.PostRepository
}

func (r cascadeFailRepo) WithTx(tx *gorm.DB) repositories.PostRepository {
	return cascadeFailRepo{r.PostRepository.WithTx(tx)}
}

func (r cascadeFailRepo) SoftDeleteByUser(userID uint, deleterID uint) error {
	return errors.New("cascade failed")
}

func TestDeleteUserRollsBackWhenCascadeFails(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	target := f.createUser(t, "Target", "target@example.com", models.RoleRegular)
	post := f.createPost(t, "Survivor", models.PostPublished, target.ID)

	users := NewUserService(f.db, f.userRepo, cascadeFailRepo{f.postRepo}, f.engine, f.blobs)

	err := users.DeleteUser(asPrincipal(admin), target.ID)
	require.Error(t, err)

	// The whole transaction rolled back: user and post are both still live.
	_, err = f.userRepo.GetByID(target.ID)
	assert.NoError(t, err)
	_, err = f.postRepo.GetByID(post.ID)
	assert.NoError(t, err)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	regular := f.createUser(t, "Regular", "regular@example.com", models.RoleRegular)
	victim := f.createUser(t, "Victim", "victim@example.com", models.RoleRegular)

	err := f.users.DeleteUser(asPrincipal(regular), victim.ID)

	var forbidden models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestDeleteMissingUser(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	err := f.users.DeleteUser(asPrincipal(admin), 9999)

	var notFound models.ErrorNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestToggleLock(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	target := f.createUser(t, "Target", "target@example.com", models.RoleRegular)

	locked, err := f.users.ToggleLock(asPrincipal(admin), target.ID)
	require.NoError(t, err)
	assert.True(t, locked)

	stored, err := f.userRepo.GetByID(target.ID)
	require.NoError(t, err)
	assert.True(t, stored.LockFlag)
	assert.Equal(t, 1, stored.LockCount)

	locked, err = f.users.ToggleLock(asPrincipal(admin), target.ID)
	require.NoError(t, err)
	assert.False(t, locked)

	stored, err = f.userRepo.GetByID(target.ID)
	require.NoError(t, err)
	assert.False(t, stored.LockFlag)
	assert.Equal(t, 1, stored.LockCount)
}

func TestToggleLockRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)

	// Not even on your own account.
	_, err := f.users.ToggleLock(asPrincipal(alice), alice.ID)

	var forbidden models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestBulkDeleteSkipsActor(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	first := f.createUser(t, "First", "first@example.com", models.RoleRegular)
	second := f.createUser(t, "Second", "second@example.com", models.RoleRegular)

	count, err := f.users.BulkAction(asPrincipal(admin), models.BulkUserActionRequest{
		Action:  "delete",
		UserIDs: []uint{admin.ID, first.ID, second.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The actor survives their own bulk delete.
	_, err = f.userRepo.GetByID(admin.ID)
	assert.NoError(t, err)
	_, err = f.userRepo.GetByID(first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBulkActionOnlySelf(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	_, err := f.users.BulkAction(asPrincipal(admin), models.BulkUserActionRequest{
		Action:  "delete",
		UserIDs: []uint{admin.ID},
	})

	var conflict models.ErrorConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestBulkUnlock(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	first := f.createUser(t, "First", "first@example.com", models.RoleRegular)
	second := f.createUser(t, "Second", "second@example.com", models.RoleRegular)

	for _, id := range []uint{first.ID, second.ID} {
		_, err := f.users.ToggleLock(asPrincipal(admin), id)
		require.NoError(t, err)
	}

	count, err := f.users.BulkAction(asPrincipal(admin), models.BulkUserActionRequest{
		Action:  "unlock",
		UserIDs: []uint{first.ID, second.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []uint{first.ID, second.ID} {
		stored, err := f.userRepo.GetByID(id)
		require.NoError(t, err)
		assert.False(t, stored.LockFlag)
	}
}

func TestBulkDeleteSkipsMissingUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	target := f.createUser(t, "Target", "target@example.com", models.RoleRegular)

	count, err := f.users.BulkAction(asPrincipal(admin), models.BulkUserActionRequest{
		Action:  "delete",
		UserIDs: []uint{target.ID, 9999},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	regular := f.createUser(t, "Regular", "regular@example.com", models.RoleRegular)

	_, _, err := f.users.ListUsers(asPrincipal(regular), models.UserListParams{})

	var forbidden models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)

	newName := "Alice Renamed"
	updated, err := f.users.UpdateProfile(asPrincipal(alice), models.UpdateProfileRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.Name)
}

func TestSetProfileImage(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)

	updated, err := f.users.SetProfileImage(asPrincipal(alice), []byte("fake-png"), "avatar.png")
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePath)
	firstPath := *updated.ProfilePath

	updated, err = f.users.SetProfileImage(asPrincipal(alice), []byte("fake-png-2"), "avatar2.png")
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePath)
	assert.NotEqual(t, firstPath, *updated.ProfilePath)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)

	err := f.users.ChangePassword(asPrincipal(alice), models.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "brand-new-pass",
	})

	var validation models.ErrorValidation
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "current_password")
}

func TestChangePasswordThenLogin(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com", models.RoleRegular)

	err := f.users.ChangePassword(asPrincipal(alice), models.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "brand-new-pass",
	})
	require.NoError(t, err)

	_, err = f.auth.Login(models.LoginRequest{Email: "alice@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestUnauthenticatedDenied(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.users.ListUsers(policy.Principal{}, models.UserListParams{})

	var forbidden models.ErrorForbidden
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, string(policy.ReasonNotAuthenticated), forbidden.Reason)
}

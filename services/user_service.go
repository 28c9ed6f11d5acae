package services

import (
	"errors"
	"log"

	"postboard/lockout"
	"postboard/models"
	"postboard/policy"
	"postboard/repositories"
	"postboard/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(actor policy.Principal, req models.CreateUserRequest) (*models.User, error)
	GetUser(actor policy.Principal, id uint) (*models.User, error)
	UpdateUser(actor policy.Principal, id uint, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(actor policy.Principal, targetID uint) error
	ToggleLock(actor policy.Principal, targetID uint) (bool, error)
	BulkAction(actor policy.Principal, req models.BulkUserActionRequest) (int, error)
	ListUsers(actor policy.Principal, params models.UserListParams) ([]models.User, int64, error)
	Statistics(actor policy.Principal) (*models.UserStatistics, error)
	UpdateProfile(actor policy.Principal, req models.UpdateProfileRequest) (*models.User, error)
	SetProfileImage(actor policy.Principal, data []byte, filename string) (*models.User, error)
	ChangePassword(actor policy.Principal, req models.ChangePasswordRequest) error
}

type userService struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	engine   *lockout.Engine
	blobs    storage.Storage
}

func NewUserService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	engine *lockout.Engine,
	blobs storage.Storage,
) UserService {
	return &userService{db: db, userRepo: userRepo, postRepo: postRepo, engine: engine, blobs: blobs}
}

func denied(d policy.Decision) error {
	messages := map[policy.DenyReason]string{
		policy.ReasonNotAuthenticated:    "Authentication required.",
		policy.ReasonNotOwner:            "You do not own this resource.",
		policy.ReasonAdminOnly:           "Admin privileges required.",
		policy.ReasonSelfDeleteForbidden: "You cannot delete yourself!",
	}
	msg, ok := messages[d.Reason]
	if !ok {
		msg = "Forbidden."
	}
	return models.ErrorForbidden{Message: msg, Reason: string(d.Reason)}
}

func translateStoreError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrorNotFound{Message: what + " not found."}
	}
	var validation models.ErrorValidation
	if errors.As(err, &validation) {
		return validation
	}
	return models.ErrorInternalServer{Message: err.Error()}
}

func (s *userService) CreateUser(actor policy.Principal, req models.CreateUserRequest) (*models.User, error) {
	if d := policy.Decide(actor, policy.ActionCreate, policy.UserResource(0)); !d.Allowed {
		return nil, denied(d)
	}

	actorID := actor.ID
	user, err := s.userRepo.Create(req, &actorID)
	if err != nil {
		return nil, translateStoreError(err, "User")
	}
	return user, nil
}

func (s *userService) GetUser(actor policy.Principal, id uint) (*models.User, error) {
	if d := policy.Decide(actor, policy.ActionView, policy.UserResource(id)); !d.Allowed {
		return nil, denied(d)
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, translateStoreError(err, "User")
	}
	return user, nil
}

func (s *userService) UpdateUser(actor policy.Principal, id uint, req models.UpdateUserRequest) (*models.User, error) {
	if d := policy.Decide(actor, policy.ActionUpdate, policy.UserResource(id)); !d.Allowed {
		return nil, denied(d)
	}
	user, err := s.userRepo.Update(id, req, actor.ID)
	if err != nil {
		return nil, translateStoreError(err, "User")
	}
	return user, nil
}

// DeleteUser releases the profile image, cascades a soft delete over the
// target's posts and soft-deletes the user. The database steps run in one
// transaction; a failure anywhere leaves no partial state.
func (s *userService) DeleteUser(actor policy.Principal, targetID uint) error {
	if targetID == actor.ID {
		return models.ErrorConflict{Message: "You cannot delete yourself!"}
	}
	if d := policy.Decide(actor, policy.ActionDelete, policy.UserResource(targetID)); !d.Allowed {
		return denied(d)
	}

	var profilePath *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		posts := s.postRepo.WithTx(tx)

		target, err := users.GetByID(targetID)
		if err != nil {
			return err
		}
		profilePath = target.ProfilePath

		if err := posts.SoftDeleteByUser(targetID, actor.ID); err != nil {
			return err
		}
		return users.SoftDelete(targetID, actor.ID)
	})
	if err != nil {
		return translateStoreError(err, "User")
	}

	// File removal happens after commit; a leftover file cannot corrupt
	// state, a rolled-back delete with a missing file could.
	if profilePath != nil {
		if err := s.blobs.Delete(*profilePath); err != nil {
			log.Printf("delete profile image %s: %v", *profilePath, err)
		}
	}
	return nil
}

func (s *userService) ToggleLock(actor policy.Principal, targetID uint) (bool, error) {
	if d := policy.Decide(actor, policy.ActionLock, policy.UserResource(targetID)); !d.Allowed {
		return false, denied(d)
	}

	var locked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		user, err := users.GetByID(targetID)
		if err != nil {
			return err
		}
		locked = s.engine.Toggle(user)
		return users.Save(user)
	})
	if err != nil {
		return false, translateStoreError(err, "User")
	}
	return locked, nil
}

// BulkAction drops the actor from the id set first, then applies the action
// per user. Individual failures (already deleted, missing) are skipped; the
// returned count is the number that actually succeeded.
func (s *userService) BulkAction(actor policy.Principal, req models.BulkUserActionRequest) (int, error) {
	action := policy.ActionLock
	if req.Action == "delete" {
		action = policy.ActionDelete
	}
	if d := policy.Decide(actor, action, policy.UserResource(0)); !d.Allowed {
		return 0, denied(d)
	}

	targets := make([]uint, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if id != actor.ID {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return 0, models.ErrorConflict{Message: "No valid users selected for bulk action."}
	}

	count := 0
	for _, id := range targets {
		var err error
		switch req.Action {
		case "unlock":
			err = s.unlockUser(id)
		case "delete":
			err = s.DeleteUser(actor, id)
		}
		if err != nil {
			log.Printf("bulk %s user %d: %v", req.Action, id, err)
			continue
		}
		count++
	}
	return count, nil
}

func (s *userService) unlockUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		user, err := users.GetByID(id)
		if err != nil {
			return err
		}
		s.engine.Unlock(user)
		return users.Save(user)
	})
}

func (s *userService) ListUsers(actor policy.Principal, params models.UserListParams) ([]models.User, int64, error) {
	if d := policy.Decide(actor, policy.ActionViewAny, policy.UserResource(0)); !d.Allowed {
		return nil, 0, denied(d)
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	return s.userRepo.GetList(params)
}

func (s *userService) Statistics(actor policy.Principal) (*models.UserStatistics, error) {
	if d := policy.Decide(actor, policy.ActionViewAny, policy.UserResource(0)); !d.Allowed {
		return nil, denied(d)
	}
	return s.userRepo.Statistics()
}

func (s *userService) UpdateProfile(actor policy.Principal, req models.UpdateProfileRequest) (*models.User, error) {
	if d := policy.Decide(actor, policy.ActionUpdate, policy.UserResource(actor.ID)); !d.Allowed {
		return nil, denied(d)
	}
	user, err := s.userRepo.UpdateProfile(actor.ID, req)
	if err != nil {
		return nil, translateStoreError(err, "User")
	}
	return user, nil
}

func (s *userService) SetProfileImage(actor policy.Principal, data []byte, filename string) (*models.User, error) {
	if d := policy.Decide(actor, policy.ActionUpdate, policy.UserResource(actor.ID)); !d.Allowed {
		return nil, denied(d)
	}

	user, err := s.userRepo.GetByID(actor.ID)
	if err != nil {
		return nil, translateStoreError(err, "User")
	}

	path, err := s.blobs.Store(data, filename)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: err.Error()}
	}

	if err := s.userRepo.UpdateProfilePath(actor.ID, &path, actor.ID); err != nil {
		return nil, translateStoreError(err, "User")
	}

	if user.ProfilePath != nil {
		if err := s.blobs.Delete(*user.ProfilePath); err != nil {
			log.Printf("delete old profile image %s: %v", *user.ProfilePath, err)
		}
	}
	return s.userRepo.GetByID(actor.ID)
}

func (s *userService) ChangePassword(actor policy.Principal, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(actor.ID)
	if err != nil {
		return translateStoreError(err, "User")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return models.NewFieldError("current_password", "The current password is incorrect.")
	}

	return s.userRepo.ChangePassword(actor.ID, req.NewPassword)
}

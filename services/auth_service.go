package services

import (
	"errors"
	"time"

	"postboard/config"
	"postboard/lockout"
	"postboard/models"
	"postboard/repositories"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	engine   *lockout.Engine
}

func NewAuthService(db *gorm.DB, userRepo repositories.UserRepository, engine *lockout.Engine) AuthService {
	return &authService{db: db, userRepo: userRepo, engine: engine}
}

// Register is self-registration: the role is always regular and there is no
// creating actor to stamp.
func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.Create(models.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleRegular,
		Status:   models.StatusActive,
	}, nil)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, models.ErrorInternalServer{Message: err.Error()}
	}

	// A locked account never authenticates, correct password or not.
	if s.engine.IsLocked(user) {
		return nil, models.ErrorForbidden{
			Message: "Your account is locked. Please contact an administrator.",
			Reason:  "account_locked",
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		if err := s.recordFailure(user.ID); err != nil {
			return nil, models.ErrorInternalServer{Message: err.Error()}
		}
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	s.engine.RecordLogin(user)
	if err := s.userRepo.Save(user); err != nil {
		return nil, models.ErrorInternalServer{Message: err.Error()}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// recordFailure persists the failed attempt through single UPDATE statements;
// the engine's threshold applies, but no stale in-memory counter is written
// back, so concurrent attempts on other connections cannot lose increments.
func (s *authService) recordFailure(userID uint) error {
	_, err := s.userRepo.RecordFailedLogin(userID, lockout.LockThreshold)
	return err
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found."}
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    string(user.Role),
		"exp":     now.Add(config.JWTExpiration).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

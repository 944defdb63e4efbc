package service

import (
	"context"
	"errors"
	"strings"

	autherrors "innkeep/internal/auth/errors"
	"innkeep/internal/auth/repository"
	bookingsrepo "innkeep/internal/bookings/repository"
	bookingsservice "innkeep/internal/bookings/service"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/password"
	"innkeep/pkg/sanitizer"
	"innkeep/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const profileBookingLimit = 10

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, plaintext string) (*AuthResult, error)
	GuestSession() *GuestSession
	Profile(ctx context.Context, userID string) (*Profile, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password string `json:"password" validate:"required,min=8,max=72"`

	// Role is optional; self-registration defaults to guest. Staff roles are
	// provisioned through seeding or by an operator.
	Role model.Role `json:"role,omitempty" validate:"omitempty,oneof=guest employee receptionist manager admin"`
}

// AuthResult carries the signed token plus the identity fields clients key on.
type AuthResult struct {
	Token  string     `json:"token"`
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
}

// GuestSession is an anonymous booking identity. The token doubles as the
// user reference on any bookings made with it.
type GuestSession struct {
	GuestID string `json:"guestId"`
}

// Profile is an account view with the user's most recent stays.
type Profile struct {
	User     *model.User              `json:"user"`
	Bookings []*model.BookingWithRoom `json:"bookings"`
}

type authService struct {
	repo     repository.UserRepository
	bookings bookingsservice.BookingService
	issuer   token.Issuer
	validate *validator.Validate
	cfg      *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	bookings bookingsservice.BookingService,
	issuer token.Issuer,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:     repo,
		bookings: bookings,
		issuer:   issuer,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Username = sanitizer.TrimAndNormalize(input.Username)
	input.Email = strings.ToLower(sanitizer.TrimAndNormalize(input.Email))

	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to check user existence", "username", input.Username, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}
	if taken {
		return nil, apperrors.Conflict("Username or email is already registered")
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	role := input.Role
	if role == "" {
		role = model.RoleGuest
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index is the arbiter under concurrent registrations.
		if errors.Is(err, autherrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Username or email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "username", input.Username, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "username", user.Username)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, plaintext string) (*AuthResult, error) {
	username = sanitizer.TrimAndNormalize(username)
	if username == "" || plaintext == "" {
		return nil, apperrors.InvalidInput("username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			// Same response as a bad password so usernames cannot be probed.
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		s.cfg.Log.Error("Failed to look up user", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := password.Verify(plaintext, user.PasswordHash); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	signed, err := s.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "username", user.Username)
	return &AuthResult{
		Token:  signed,
		UserID: user.ID,
		Role:   user.Role,
	}, nil
}

func (s *authService) GuestSession() *GuestSession {
	return &GuestSession{GuestID: uuid.New().String()}
}

func (s *authService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, autherrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to load profile", err)
	}

	bookings, _, err := s.bookings.ListByUser(ctx, userID, bookingsrepo.SortByCheckIn, profileBookingLimit, 0)
	if err != nil {
		// A user with no stays still has a profile.
		if appErr := apperrors.AsAppError(err); appErr.Code == apperrors.CodeNotFound {
			bookings = nil
		} else {
			return nil, err
		}
	}

	return &Profile{
		User:     user,
		Bookings: bookings,
	}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (s *authService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		switch {
		case errors.Is(err, autherrors.ErrNotFound):
			return apperrors.NotFoundWithID("User", userID)
		case errors.Is(err, autherrors.ErrInvalidID):
			return apperrors.InvalidInput("Invalid user ID format")
		default:
			s.cfg.Log.Error("Failed to delete user", "user_id", userID, "error", err)
			return apperrors.Internal("Failed to delete user", err)
		}
	}

	s.cfg.Log.Info("User deleted", "id", userID)
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/redact"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
	"github.com/phrazzld/shopping-list-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of an account creation request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserService provides account operations.
type UserService interface {
	// Register creates an account and returns a token pair for it.
	// Nothing is created if any check fails.
	Register(ctx context.Context, in RegisterInput) (*auth.TokenPair, error)

	// Login exchanges a username or email and a password for a token pair.
	Login(ctx context.Context, usernameOrEmail, password string) (*auth.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users    store.UserStore
	tx       store.Transactor
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	tx store.Transactor,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		users:    users,
		tx:       tx,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register validates the input, then checks email and username availability
// and inserts the user inside one transaction. A unique violation raised by
// a concurrent registration surfaces as the same duplicate error.
func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, domain.NewValidationError("password", passwordMessage(err), err)
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.NewValidationError("confirm_password", "Passwords do not match", ErrPasswordsDoNotMatch)
	}

	user, err := domain.NewUser(in.Username, in.Email, in.Password)
	if err != nil {
		return nil, userValidationError(err)
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		if err := ensureAbsent(users.GetByEmail(ctx, user.Email)); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return store.ErrEmailExists
			}
			return err
		}
		if err := ensureAbsent(users.GetByUsername(ctx, user.Username)); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return store.ErrUsernameExists
			}
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) || errors.Is(err, store.ErrInvalidEntity) {
			log.Debug("registration rejected",
				slog.String("username", user.Username),
				slog.String("reason", err.Error()))
			return nil, err
		}
		log.Error("failed to register user", redact.ErrorAttr(err))
		return nil, newUserServiceError("register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, "register", user.ID)
}

// Login authenticates by username or email. An unknown identifier still costs
// one bcrypt comparison so response timing does not reveal which accounts exist.
func (s *UserServiceImpl) Login(ctx context.Context, usernameOrEmail, password string) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to look up user for login", redact.ErrorAttr(err))
			return nil, newUserServiceError("login", "failed to look up user", err)
		}
		_ = s.verifier.Compare(dummyHash(), password)
		log.Debug("login failed: unknown user")
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("failed to verify password",
				redact.ErrorAttr(err),
				slog.String("user_id", user.ID.String()))
		}
		log.Debug("login failed: wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, "login", user.ID)
}

// Refresh validates the refresh token and issues a new pair, provided the
// user still exists.
func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("refresh token for unknown user", slog.String("user_id", claims.UserID.String()))
			return nil, auth.ErrInvalidRefreshToken
		}
		log.Error("failed to look up user for refresh", redact.ErrorAttr(err))
		return nil, newUserServiceError("refresh", "failed to look up user", err)
	}

	return s.issue(ctx, "refresh", claims.UserID)
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, newUserServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) issue(ctx context.Context, operation string, userID uuid.UUID) (*auth.TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to issue tokens",
			redact.ErrorAttr(err),
			slog.String("user_id", userID.String()))
		return nil, newUserServiceError(operation, "failed to issue tokens", err)
	}
	return pair, nil
}

// ensureAbsent turns a lookup result into nil when nothing was found and
// store.ErrDuplicate when something was.
func ensureAbsent(_ *domain.User, err error) error {
	switch {
	case err == nil:
		return store.ErrDuplicate
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
})

func passwordMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyPassword):
		return "This field is required"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 8 characters"
	default:
		return "Password must be at most 72 characters"
	}
}

// userValidationError attaches the offending field to a domain.User validation error.
func userValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyUsername):
		return domain.NewValidationError("username", "This field is required", err)
	case errors.Is(err, domain.ErrUsernameTooLong), errors.Is(err, domain.ErrInvalidUsername):
		return domain.NewValidationError("username", err.Error(), err)
	case errors.Is(err, domain.ErrEmptyEmail):
		return domain.NewValidationError("email", "This field is required", err)
	case errors.Is(err, domain.ErrInvalidEmail):
		return domain.NewValidationError("email", "Enter a valid email address", err)
	default:
		return domain.NewValidationError("password", err.Error(), err)
	}
}

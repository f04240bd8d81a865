package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/repository"
	"github.com/staffroom/logbook-api/pkg/identity"
)

// Auth failure modes surfaced to the handler layer.
var (
	ErrChallengeFailed  = errors.New("challenge answer is wrong or expired")
	ErrEmailNotVerified = errors.New("email address is not verified")
	ErrRoleMismatch     = errors.New("selected role does not match the account")
)

// AuthError wraps an identity-provider failure with its fixed user-facing
// message.
type AuthError struct {
	Message string
	cause   error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.cause }

const challengeKeyPrefix = "auth:challenge:"

// AuthService handles registration, sign-in and the supporting flows. All
// credential checks are delegated to the identity provider; this service
// owns the local profile row and the API token.
type AuthService interface {
	Challenge(ctx context.Context) (dto.ChallengeResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	OAuthLogin(ctx context.Context, req dto.OAuthLoginRequest) (dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResendVerification(ctx context.Context, req dto.ResendVerificationRequest) error
}

type authService struct {
	provider     identity.Provider
	users        repository.UserRepository
	cache        *redis.Client
	validator    *validator.Validate
	logger       zerolog.Logger
	jwtSecret    []byte
	tokenTTL     time.Duration
	challengeTTL time.Duration
	now          func() time.Time
	newID        func() string
	randInt      func(n int) int
}

// NewAuthService constructs the auth service. The redis client backs the
// arithmetic challenges and must not be nil.
func NewAuthService(provider identity.Provider, users repository.UserRepository, cache *redis.Client, validate *validator.Validate, jwtSecret string, tokenTTL, challengeTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		provider:     provider,
		users:        users,
		cache:        cache,
		validator:    validate,
		logger:       logger.With().Str("component", "auth_service").Logger(),
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
		newID:        uuid.NewString,
		randInt:      rand.IntN,
	}
}

// Challenge issues a short-lived arithmetic question the client must echo
// back on register and login.
func (s *authService) Challenge(ctx context.Context) (dto.ChallengeResponse, error) {
	a := s.randInt(9) + 1
	b := s.randInt(9) + 1

	var question string
	var answer int
	switch s.randInt(3) {
	case 0:
		question, answer = fmt.Sprintf("What is %d + %d?", a, b), a+b
	case 1:
		question, answer = fmt.Sprintf("What is %d * %d?", a, b), a*b
	default:
		if a < b {
			a, b = b, a
		}
		question, answer = fmt.Sprintf("What is %d - %d?", a, b), a-b
	}

	id := s.newID()
	key := challengeKeyPrefix + id
	if err := s.cache.Set(ctx, key, strconv.Itoa(answer), s.challengeTTL).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to store challenge")
		return dto.ChallengeResponse{}, err
	}

	return dto.ChallengeResponse{ID: id, Question: question}, nil
}

// checkChallenge consumes the challenge; a second attempt with the same id
// always fails.
func (s *authService) checkChallenge(ctx context.Context, id, answer string) error {
	key := challengeKeyPrefix + id
	stored, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrChallengeFailed
		}
		return err
	}
	s.cache.Del(ctx, key)

	if strings.TrimSpace(answer) != stored {
		return ErrChallengeFailed
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.checkChallenge(ctx, req.ChallengeID, req.ChallengeAnswer); err != nil {
		return dto.UserResponse{}, err
	}

	account, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return dto.UserResponse{}, s.wrapIdentityError(err)
	}

	// Verification mail failures are logged but do not fail the signup;
	// the user can request a reset to re-verify.
	if err := s.provider.SendEmailVerification(ctx, account.IDToken); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("failed to send verification email")
	}

	user := models.User{
		ID:     account.UID,
		Name:   strings.TrimSpace(req.Name),
		Role:   models.Role(req.Role),
		Email:  req.Email,
		Avatar: req.Avatar,
	}
	if user.ID == "" {
		user.ID = s.newID()
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to create profile row")
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}
	if err := s.checkChallenge(ctx, req.ChallengeID, req.ChallengeAnswer); err != nil {
		return dto.AuthResponse{}, err
	}

	account, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return dto.AuthResponse{}, s.wrapIdentityError(err)
	}
	if !account.EmailVerified {
		return dto.AuthResponse{}, ErrEmailNotVerified
	}

	user, err := s.resolveProfile(ctx, account, models.Role(req.Role))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return s.issueToken(user)
}

func (s *authService) OAuthLogin(ctx context.Context, req dto.OAuthLoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	account, err := s.provider.SignInWithIDP(ctx, req.IDToken)
	if err != nil {
		return dto.AuthResponse{}, s.wrapIdentityError(err)
	}

	user, err := s.resolveProfile(ctx, account, models.Role(req.Role))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return s.issueToken(user)
}

func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if err := s.provider.SendPasswordReset(ctx, req.Email); err != nil {
		return s.wrapIdentityError(err)
	}
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, req dto.ResendVerificationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if err := s.provider.SendEmailVerification(ctx, req.IDToken); err != nil {
		return s.wrapIdentityError(err)
	}
	return nil
}

// resolveProfile loads the local profile for a verified account, creating
// it on first sign-in. An existing profile with a different role rejects
// the login rather than silently switching roles.
func (s *authService) resolveProfile(ctx context.Context, account identity.Account, role models.Role) (models.User, error) {
	user, err := s.users.GetByEmail(ctx, account.Email)
	if err == nil {
		if user.Role != role {
			return models.User{}, ErrRoleMismatch
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}

	name := strings.TrimSpace(account.DisplayName)
	if name == "" {
		name = account.Email
		if at := strings.Index(name, "@"); at > 0 {
			name = name[:at]
		}
	}

	user = models.User{
		ID:     account.UID,
		Name:   name,
		Role:   role,
		Email:  account.Email,
		Avatar: account.PhotoURL,
	}
	if user.ID == "" {
		user.ID = s.newID()
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", account.Email).Msg("failed to auto-provision profile")
		return models.User{}, err
	}
	return user, nil
}

func (s *authService) issueToken(user models.User) (dto.AuthResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  string(user.Role),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) wrapIdentityError(err error) error {
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		return &AuthError{Message: idErr.UserMessage(), cause: err}
	}
	return err
}

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/repository"
)

// ErrInvalidAvatar is returned when the uploaded avatar is not a decodable
// image payload.
var ErrInvalidAvatar = errors.New("avatar must be a base64-encoded image")

// ErrUserNotFound is returned when the profile row does not exist.
var ErrUserNotFound = errors.New("user profile not found")

// ProfileService reads and patches the caller's own profile row.
type ProfileService interface {
	Get(ctx context.Context, userID string) (dto.UserResponse, error)
	Update(ctx context.Context, userID string, req dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type profileService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// Update applies the non-nil fields of the patch. Role and email stay
// immutable; avatars must decode to an image payload.
func (s *profileService) Update(ctx context.Context, userID string, req dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subjects != nil {
		user.Subjects = *req.Subjects
	}
	if req.Classes != nil {
		user.Classes = *req.Classes
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Experience != nil {
		user.Experience = *req.Experience
	}
	if req.Avatar != nil {
		avatar := *req.Avatar
		if avatar != "" {
			if err := validateAvatar(avatar); err != nil {
				return dto.UserResponse{}, err
			}
		}
		user.Avatar = avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update profile")
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// validateAvatar accepts either a raw base64 image payload or a data URL
// wrapping one, and sniffs the decoded bytes for an image content type.
func validateAvatar(avatar string) error {
	payload := avatar
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 {
			return ErrInvalidAvatar
		}
		payload = payload[comma+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ErrInvalidAvatar
	}

	if !strings.HasPrefix(mimetype.Detect(decoded).String(), "image/") {
		return ErrInvalidAvatar
	}
	return nil
}

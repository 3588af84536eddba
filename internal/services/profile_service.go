package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/cache"
	"github.com/hairwise/hairwise-backend/internal/models"
	pgrepo "github.com/hairwise/hairwise-backend/internal/repositories/postgres"
	"github.com/hairwise/hairwise-backend/internal/rules"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

const filterViewTTL = 5 * time.Minute

// ProfileUpdate is a partial update; nil fields are left alone. There is
// no role field on purpose.
type ProfileUpdate struct {
	FullName       *string   `json:"full_name,omitempty"`
	HairType       *string   `json:"hair_type,omitempty"`
	ScalpCondition *string   `json:"scalp_condition,omitempty"`
	Concerns       *[]string `json:"hair_concerns,omitempty"`
}

type ProfileService interface {
	// Ensure creates the profile row mirroring the identity record on
	// first sight of an authenticated user. Safe to call on every request.
	Ensure(ctx context.Context, userID, email string) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, patch ProfileUpdate) (*models.Profile, error)
	// FilterView is the snapshot the response matcher consumes. A missing
	// profile yields the zero view.
	FilterView(ctx context.Context, userID string) (rules.ProfileView, error)
	Role(ctx context.Context, userID string) (models.UserRole, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	cache    cache.Cache
	log      logrus.FieldLogger
}

func NewProfileService(profiles pgrepo.ProfileRepository, c cache.Cache, log logrus.FieldLogger) ProfileService {
	return &profileService{profiles: profiles, cache: c, log: log}
}

func filterViewKey(userID string) string { return "profile:view:" + userID }

func (s *profileService) Ensure(ctx context.Context, userID, email string) error {
	const op = "ProfileService.Ensure"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := time.Now().UTC()
	p := &models.Profile{
		ID:        userID,
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.EnsureExists(ctx, p); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to ensure profile", err)
	}
	return nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, patch ProfileUpdate) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if patch.HairType != nil && *patch.HairType != "" && !models.ValidHairType(*patch.HairType) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown hair type", nil)
	}
	if patch.ScalpCondition != nil && *patch.ScalpCondition != "" && !models.ValidScalpCondition(*patch.ScalpCondition) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown scalp condition", nil)
	}

	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		existing.FullName = *patch.FullName
	}
	if patch.HairType != nil {
		existing.HairType = *patch.HairType
	}
	if patch.ScalpCondition != nil {
		existing.ScalpCondition = *patch.ScalpCondition
	}
	if patch.Concerns != nil {
		existing.Concerns = dedupe(*patch.Concerns)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.profiles.UpdateAttributes(ctx, existing); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to update profile", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, filterViewKey(userID)); err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("profile view cache invalidation failed")
		}
	}
	return existing, nil
}

func (s *profileService) FilterView(ctx context.Context, userID string) (rules.ProfileView, error) {
	const op = "ProfileService.FilterView"

	if userID == "" {
		return rules.ProfileView{}, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if s.cache != nil {
		var view rules.ProfileView
		hit, err := s.cache.GetJSON(ctx, filterViewKey(userID), &view)
		if err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("profile view cache read failed")
		} else if hit {
			return view, nil
		}
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return rules.ProfileView{}, utils.E(utils.CodeUnavailable, op, "failed to load profile", err)
	}

	var view rules.ProfileView
	if p != nil {
		view = rules.ProfileView{
			HairType: p.HairType,
			Scalp:    p.ScalpCondition,
			Concerns: p.Concerns,
		}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, filterViewKey(userID), view, filterViewTTL); err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("profile view cache write failed")
		}
	}
	return view, nil
}

func (s *profileService) Role(ctx context.Context, userID string) (models.UserRole, error) {
	const op = "ProfileService.Role"

	if userID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	role, err := s.profiles.RoleByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// no profile row yet: plain user
			return models.RoleUser, nil
		}
		return "", utils.E(utils.CodeUnavailable, op, "failed to look up role", err)
	}
	return role, nil
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

package farmers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.FarmerProfile, error)
	Save(ctx context.Context, profile *models.FarmerProfile) (*models.FarmerProfile, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
}

// Service covers the public farmer directory and the profile lifecycle.
type Service interface {
	ListFarmers(ctx context.Context) ([]FarmerDTO, error)
	GetFarmer(ctx context.Context, userID uuid.UUID) (*FarmerDTO, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*FarmerProfileDTO, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) (*FarmerProfileDTO, error)
}

type service struct {
	profiles profileRepository
	users    userDirectory
}

// NewService builds the farmers service.
func NewService(profiles profileRepository, users userDirectory) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("farmer profile repository is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	return &service{profiles: profiles, users: users}, nil
}

func (s *service) ListFarmers(ctx context.Context) ([]FarmerDTO, error) {
	farmers, err := s.users.ListByRole(ctx, enums.RoleFarmer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmers")
	}

	ids := make([]uuid.UUID, 0, len(farmers))
	for _, farmer := range farmers {
		ids = append(ids, farmer.ID)
	}
	profiles, err := s.profiles.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer profiles")
	}

	out := make([]FarmerDTO, 0, len(farmers))
	for i := range farmers {
		dto := FarmerDTO{User: *users.FromModel(&farmers[i])}
		if profile, ok := profiles[farmers[i].ID]; ok {
			dto.Profile = FromProfileModel(&profile)
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) GetFarmer(ctx context.Context, userID uuid.UUID) (*FarmerDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer")
	}
	if user.Role != enums.RoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
	}

	dto := &FarmerDTO{User: *users.FromModel(user)}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		dto.Profile = FromProfileModel(profile)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Profiles are created lazily; a farmer without one is still listed.
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer profile")
	}
	return dto, nil
}

func (s *service) UpsertProfile(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*FarmerProfileDTO, error) {
	farmName := strings.TrimSpace(req.FarmName)
	if farmName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmName is required")
	}
	if req.DeliveryRadius < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deliveryRadius cannot be negative")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer profile")
		}
		profile = &models.FarmerProfile{UserID: userID}
	}

	profile.FarmName = farmName
	profile.Description = strings.TrimSpace(req.Description)
	profile.FarmImages = req.FarmImages
	profile.FarmingPractices = req.FarmingPractices
	profile.EstablishedYear = req.EstablishedYear
	profile.SocialMedia = req.SocialMedia
	profile.BusinessHours = req.BusinessHours
	profile.AcceptsPickup = req.AcceptsPickup
	profile.AcceptsDelivery = req.AcceptsDelivery
	profile.DeliveryRadius = req.DeliveryRadius

	saved, err := s.profiles.Save(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save farmer profile")
	}
	return FromProfileModel(saved), nil
}

func (s *service) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) (*FarmerProfileDTO, error) {
	if err := s.profiles.SetVerified(ctx, userID, verified); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update verification")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer profile")
	}
	return FromProfileModel(profile), nil
}

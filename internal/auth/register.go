package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	pkgAuth "github.com/kisanbazar/kisanbazar-backend/pkg/auth"
	"github.com/kisanbazar/kisanbazar-backend/pkg/auth/session"
	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/security"
)

// RegisterService handles the account-creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	SessionManager sessionManager
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
}

type registerService struct {
	db          *db.Client
	session     sessionManager
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &registerService{
		db:          params.DB,
		session:     params.SessionManager,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	role, err := enums.ParseRole(req.Role)
	if err != nil || role == enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be consumer or farmer")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: passwordHash,
			Role:         role,
			Phone:        req.Phone,
			Address:      req.Address,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: created.ID,
		Role:   created.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &AuthResponse{
		TokenPair: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:      users.FromModel(created),
	}, nil
}

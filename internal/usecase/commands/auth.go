package commands

import (
	"context"
	"log/slog"

	"tourbook/internal/domain/user"
	reqdto "tourbook/internal/handler/dto/request"
	"tourbook/internal/infra"
	"tourbook/internal/pkg/clock"
	"tourbook/internal/pkg/errs"
	"tourbook/internal/pkg/jwt"
	"tourbook/internal/pkg/password"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrEmailAlreadyTaken    = errs.New("email already taken")
	ErrAuthenticationFailed = errs.New("authentication failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

// UserAuthRepo is the non-transactional lookup surface the auth flow needs.
type UserAuthRepo interface {
	FindByEmail(ctx context.Context, email user.Email) (*shared.AuthorizedUser, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*shared.AuthorizedUser, error)
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req reqdto.RegisterRequest) (*shared.AuthorizedUser, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*shared.AuthorizedUser, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	userRepo   UserAuthRepo
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, userRepo UserAuthRepo, jwtService *jwt.Service, clock clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		userRepo:   userRepo,
		jwtService: jwtService,
		clock:      clock,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	snapshot, hash, err := a.userRepo.FindByEmail(ctx, credentials.Email())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	if !snapshot.IsActive {
		return nil, ErrUserInactive
	}
	if err := password.Verify(hash, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(snapshot.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(snapshot.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, snapshot.ID, a.clock.Now())
	})
	if err != nil {
		// Login already succeeded; the timestamp is best effort.
		slog.Warn("failed to update last login", "user_id", snapshot.ID, "error", err.Error())
	}

	return &LoginResult{UserID: snapshot.ID, AccessToken: accessToken}, nil
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*shared.AuthorizedUser, error) {
	entity, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Users().Create(ctx, entity); createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrEmailAlreadyTaken
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return a.userRepo.FindByID(ctx, entity.ID())
}

func (a *authCommandsImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*shared.AuthorizedUser, error) {
	snapshot, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snapshot, nil
}

package usecase

import (
	"tourbook/internal/domain/user"
	"tourbook/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
	// ValidateManageToken resolves a magic-link token to the booking it
	// grants access to and the email it proves.
	ValidateManageToken(tokenString string) (uuid.UUID, string, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, role, nil
}

func (t *tokenValidatorImpl) ValidateManageToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := t.jwtService.ValidateManageToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.BookingID, claims.Email, nil
}

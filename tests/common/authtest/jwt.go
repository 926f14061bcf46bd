//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"tourbook/internal/domain/user"
	"tourbook/internal/pkg/config"
	"tourbook/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) service(t *testing.T) *jwt.Service {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	manageDuration, err := time.ParseDuration(h.cfg.ManageDuration)
	require.NoError(t, err)
	return jwt.NewService(h.cfg.Secret, duration, manageDuration)
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) GenerateManageToken(t *testing.T, bookingID uuid.UUID, email string) string {
	t.Helper()
	token, err := h.service(t).GenerateManageToken(bookingID, email)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	manageDuration, err := time.ParseDuration(h.cfg.ManageDuration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond, manageDuration)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

package request

import (
	"strings"

	"tourbook/internal/domain/user"
	"tourbook/internal/pkg/password"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     string `json:"role" binding:"required,oneof=tourist guide"`
}

func (r *RegisterRequest) ToDomain() (*user.User, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	if _, err := user.NewPassword(r.Password); err != nil {
		return nil, err
	}
	role, err := user.NewRole(r.Role)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(r.Password)
	if err != nil {
		return nil, err
	}
	return user.NewUser(email, hash, strings.TrimSpace(r.Name), role), nil
}

package response

import (
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"isActive"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

func FromAuthorizedUser(u *shared.AuthorizedUser) *UserResponse {
	var resp UserResponse
	_ = copier.Copy(&resp, u)
	return &resp
}

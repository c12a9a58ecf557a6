package dto

import (
	"time"

	"github.com/civicgrid/grievance-service/internal/domain"
)

// RegisterRequest payload for new accounts. There is no role field; every
// registration creates a citizen.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the outward account representation. The password
// credential is never part of it.
type AccountResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Phone     *string     `json:"phone,omitempty"`
	Address   *string     `json:"address,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	User  AccountResponse `json:"user"`
	Token string          `json:"token"`
}

// NewAccountResponse maps a domain account to its outward shape.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
		Phone:     account.Phone,
		Address:   account.Address,
		CreatedAt: account.CreatedAt,
	}
}

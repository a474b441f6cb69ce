package handlers

import (
	"time"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	DateOfBirth *string   `json:"date_of_birth"`
	Role        string    `json:"role"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	out := userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role.String(),
		Provider:  u.Provider.String(),
		CreatedAt: u.CreatedAt,
	}
	if u.DateOfBirth != nil {
		d := u.DateOfBirth.Format(validation.DateLayout)
		out.DateOfBirth = &d
	}
	return out
}

func toUserResponses(users []entity.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,username"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,date"`
}

type profileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,date"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type adminResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetWithOTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required"`
}

type listUsersQuery struct {
	Page    int    `form:"page" binding:"gte=0"`
	Size    int    `form:"size" binding:"gte=0"`
	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
	Search  string `form:"search"`
	Role    string `form:"role"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

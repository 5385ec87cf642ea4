package dto

import (
	"time"

	"github.com/yigit/acroconnect/internal/app/models"
)

// CreateUserRequest registers an account. Name, Phone and CGPA are write-only
// profile bootstrap fields.
type CreateUserRequest struct {
	Username  string   `json:"username" form:"username" binding:"required,max=150" example:"asha"`
	Email     string   `json:"email" form:"email" binding:"required,email,max=254" example:"asha@example.com"`
	Password  string   `json:"password" form:"password" binding:"required,min=8,max=128"`
	FirstName string   `json:"first_name" form:"first_name" binding:"max=150" example:"Asha"`
	LastName  string   `json:"last_name" form:"last_name" binding:"max=150" example:"Rao"`
	IsTPO     bool     `json:"is_tpo" form:"is_tpo"`
	Name      string   `json:"name" form:"name" binding:"max=255" example:"Asha Rao"`
	Phone     string   `json:"phone" form:"phone" binding:"max=20" example:"9876543210"`
	CGPA      *float64 `json:"cgpa" form:"cgpa" binding:"omitempty,gte=0,lte=10" example:"8.4"`
}

// HasProfileBootstrap reports whether the request carries enough data to build
// the student profile inline.
func (r *CreateUserRequest) HasProfileBootstrap() bool {
	return r.Name != "" && r.Phone != ""
}

// UpdateUserRequest is a partial update of an account
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=128"`
}

// UserResponse is the public projection of an account
type UserResponse struct {
	ID         int64     `json:"id" example:"1"`
	Username   string    `json:"username" example:"asha"`
	Email      string    `json:"email" example:"asha@example.com"`
	FirstName  string    `json:"first_name" example:"Asha"`
	LastName   string    `json:"last_name" example:"Rao"`
	IsTPO      bool      `json:"is_tpo" example:"false"`
	IsActive   bool      `json:"is_active" example:"true"`
	DateJoined time.Time `json:"date_joined"`
}

// NewUserResponse maps a user model
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsTPO:      u.IsTPO,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
	}
}

// NewUserResponses maps a list of users
func NewUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

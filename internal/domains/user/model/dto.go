package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// RegisterRequest request to create an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(MinUsernameLength, MaxUsernameLength)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
}

// LoginRequest request to authenticate
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateProfileRequest self-service profile update. Only provided fields
// change.
type UpdateProfileRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(MinUsernameLength, MaxUsernameLength)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Bio, validation.Length(0, MaxBioLength)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// PublicProfile is the user as shown to anyone.
type PublicProfile struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	Bio          string             `json:"bio,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// NewPublicProfile strips credentials off a user record.
func NewPublicProfile(u *User) PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResponse is returned on register/login.
type AuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         PublicProfile `json:"user"`
}

package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
)

// UserService is the business logic contract for accounts and profiles.
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*model.PublicProfile, error)
	UpdateProfile(ctx context.Context, callerID, targetID primitive.ObjectID, req model.UpdateProfileRequest) (*model.PublicProfile, error)
}

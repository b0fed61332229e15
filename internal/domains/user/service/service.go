package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/pkg/jwt"
)

const bcryptCost = 12

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create user; the unique indexes reject duplicate identities
	user := &model.User{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrIdentityTaken) {
			return nil, model.NewIdentityTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Step 4: Issue tokens
	return s.buildAuthResponse(user)
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Look up the account. A missing account and a wrong password
	// produce the same error.
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Step 3: Verify password (constant-time comparison)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 4: Issue tokens
	return s.buildAuthResponse(user)
}

func (s *userService) buildAuthResponse(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         model.NewPublicProfile(user),
	}, nil
}

// =====================================================
// GET PUBLIC PROFILE
// =====================================================

func (s *userService) GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*model.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := model.NewPublicProfile(user)
	return &profile, nil
}

// =====================================================
// UPDATE PROFILE
// =====================================================

func (s *userService) UpdateProfile(ctx context.Context, callerID, targetID primitive.ObjectID, req model.UpdateProfileRequest) (*model.PublicProfile, error) {
	// Step 1: Only the owner may touch a profile
	if callerID != targetID {
		return nil, model.NewForbiddenError()
	}

	// Step 2: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 3: Load the current record
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Step 4: Check the new identity fields against other users before
	// writing, for a friendly conflict message; the unique indexes still
	// back this up.
	var newUsername, newEmail string
	if req.Username != nil && *req.Username != user.Username {
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if newUsername != "" || newEmail != "" {
		taken, err := s.userRepo.IdentityTaken(ctx, user.ID, newUsername, newEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to check identity: %w", err)
		}
		if taken {
			return nil, model.NewIdentityTakenError()
		}
	}

	// Step 5: Apply provided fields
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}

	// Step 6: Persist
	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, model.ErrIdentityTaken):
			return nil, model.NewIdentityTakenError()
		case errors.Is(err, model.ErrUserNotFound):
			return nil, model.NewUserNotFoundError()
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	profile := model.NewPublicProfile(user)
	return &profile, nil
}

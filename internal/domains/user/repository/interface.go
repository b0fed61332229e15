package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
)

// UserRepository is the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByIDs batch-loads users, keyed by id. Missing ids are absent from
	// the map, not an error.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error)

	Update(ctx context.Context, user *model.User) error

	// IdentityTaken reports whether another user already holds the given
	// username or email. Empty strings are not checked.
	IdentityTaken(ctx context.Context, excludeID primitive.ObjectID, username, email string) (bool, error)
}

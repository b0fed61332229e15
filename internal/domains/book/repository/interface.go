package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
)

// BookRepository is the data access contract for books.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error)

	// GetByIDs batch-loads books, keyed by id. Missing ids are absent from
	// the map, not an error.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Book, error)
	List(ctx context.Context, q model.ListQuery) ([]model.Book, int64, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// UpdateRating writes the derived aggregate fields. A missing book is a
	// no-op, not an error: book deletion and review cascade race harmlessly.
	UpdateRating(ctx context.Context, id primitive.ObjectID, avgRating float64, reviewCount int) error

	// ListIDs returns every book id, for the reconciliation sweep.
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

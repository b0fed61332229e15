package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
)

// BookService is the business logic contract for the catalog.
type BookService interface {
	ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error)
	GetBook(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	CreateBook(ctx context.Context, createdBy primitive.ObjectID, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
	UploadCover(ctx context.Context, id primitive.ObjectID, data []byte) (*model.Book, error)
}

// CoverStorage stores cover images. Satisfied by storage.MinIOStorage.
type CoverStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CoverProcessor validates and normalizes uploaded images. Satisfied by
// storage.ImageProcessor.
type CoverProcessor interface {
	ValidateImage(data []byte) error
	ProcessCover(data []byte) ([]byte, error)
}

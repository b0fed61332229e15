package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

const (
	cacheKeyPrefix = "books:"
	cacheTTL       = 5 * time.Minute
)

type bookService struct {
	bookRepo   repository.BookRepository
	reviewRepo reviewRepo.ReviewRepository
	cache      cache.Cache
	storage    CoverStorage
	processor  CoverProcessor
}

func NewBookService(
	books repository.BookRepository,
	reviews reviewRepo.ReviewRepository,
	c cache.Cache,
	storage CoverStorage,
	processor CoverProcessor,
) BookService {
	return &bookService{
		bookRepo:   books,
		reviewRepo: reviews,
		cache:      c,
		storage:    storage,
		processor:  processor,
	}
}

// =====================================================
// LIST BOOKS
// =====================================================

func (s *bookService) ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error) {
	req.Normalize()

	key := listCacheKey(req)

	var cached model.ListBooksResponse
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	books, total, err := s.bookRepo.List(ctx, model.ListQuery{
		Search:    req.Search,
		Genre:     req.Genre,
		MinRating: req.MinRating(),
		Sort:      req.Sort,
		Page:      req.Page,
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	resp := &model.ListBooksResponse{
		Books:       books,
		TotalPages:  int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		CurrentPage: req.Page,
		Total:       int(total),
	}

	// Cache failures only cost the next caller a query
	if err := s.cache.Set(ctx, key, resp, cacheTTL); err != nil {
		logger.Error("Failed to cache book listing", err)
	}

	return resp, nil
}

// =====================================================
// GET BOOK
// =====================================================

func (s *bookService) GetBook(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	key := cacheKeyPrefix + "detail:" + id.Hex()

	var cached model.Book
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := s.cache.Set(ctx, key, book, cacheTTL); err != nil {
		logger.Error("Failed to cache book", err)
	}

	return book, nil
}

// =====================================================
// CREATE BOOK (admin)
// =====================================================

func (s *bookService) CreateBook(ctx context.Context, createdBy primitive.ObjectID, req model.CreateBookRequest) (*model.Book, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	publishedDate, err := req.ParsedPublishedDate()
	if err != nil {
		return nil, fmt.Errorf("failed to parse published date: %w", err)
	}

	// Step 2: Build the record. Derived fields start at zero.
	book := &model.Book{
		ID:            primitive.NewObjectID(),
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImage:    req.CoverImage,
		PublishedDate: publishedDate,
		ISBN:          req.ISBN,
		Pages:         req.Pages,
		AvgRating:     0,
		ReviewCount:   0,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// Step 3: Insert; the sparse unique index rejects a duplicate ISBN
	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, model.ErrISBNExists) {
			return nil, model.NewISBNExistsError()
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.invalidateCache(ctx)
	return book, nil
}

// =====================================================
// UPDATE BOOK (admin)
// =====================================================

func (s *bookService) UpdateBook(ctx context.Context, id primitive.ObjectID, req model.UpdateBookRequest) (*model.Book, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load the current record
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	// Step 3: Apply provided fields. Derived fields are not touchable here.
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}
	if req.PublishedDate != nil {
		publishedDate, err := time.Parse(model.PublishedDateLayout, *req.PublishedDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse published date: %w", err)
		}
		book.PublishedDate = publishedDate
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}
	if req.Pages != nil {
		book.Pages = req.Pages
	}

	// Step 4: Persist
	if err := s.bookRepo.Update(ctx, book); err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			return nil, model.NewBookNotFoundError()
		case errors.Is(err, model.ErrISBNExists):
			return nil, model.NewISBNExistsError()
		default:
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	s.invalidateCache(ctx)
	return book, nil
}

// =====================================================
// DELETE BOOK (admin, cascades reviews)
// =====================================================

func (s *bookService) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	// Step 1: Delete the book itself
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return model.NewBookNotFoundError()
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	// Step 2: Cascade the reviews. There is no cross-document transaction;
	// a reader between the two deletes sees orphan reviews for a moment.
	deleted, err := s.reviewRepo.DeleteByBook(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cascade review deletion: %w", err)
	}

	logger.Info("Book deleted", map[string]interface{}{
		"book_id":         id.Hex(),
		"reviews_deleted": deleted,
	})

	// Step 3: Drop stored covers, best effort
	if err := s.storage.DeleteByPrefix(ctx, coverPrefix(id)); err != nil {
		logger.Error("Failed to delete book covers", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// =====================================================
// UPLOAD COVER (admin)
// =====================================================

func (s *bookService) UploadCover(ctx context.Context, id primitive.ObjectID, data []byte) (*model.Book, error) {
	// Step 1: The book must exist
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	// Step 2: Validate and normalize the image
	if err := s.processor.ValidateImage(data); err != nil {
		return nil, model.NewInvalidCoverError(err)
	}
	processed, err := s.processor.ProcessCover(data)
	if err != nil {
		return nil, model.NewInvalidCoverError(err)
	}

	// Step 3: Store and record the URL
	key := fmt.Sprintf("%s/cover_%d.jpg", coverPrefix(id), time.Now().Unix())
	url, err := s.storage.Upload(ctx, key, processed, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload cover: %w", err)
	}

	book.CoverImage = url
	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to save cover url: %w", err)
	}

	s.invalidateCache(ctx)
	return book, nil
}

// listCacheKey derives the cache key for a normalized listing request.
// The free-text parts are length-prefixed so a crafted search or genre
// value cannot collide with the field separators and serve another
// query's cached page.
func listCacheKey(req model.ListBooksRequest) string {
	return fmt.Sprintf("%slist:p%d:l%d:s%d.%s:g%d.%s:r%d.%s:o%d.%s",
		cacheKeyPrefix, req.Page, req.Limit,
		len(req.Search), req.Search,
		len(req.Genre), req.Genre,
		len(req.Rating), req.Rating,
		len(req.Sort), req.Sort)
}

func coverPrefix(id primitive.ObjectID) string {
	return "covers/" + id.Hex()
}

func (s *bookService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cacheKeyPrefix+"*"); err != nil {
		logger.Error("Failed to invalidate book cache", err)
	}
}

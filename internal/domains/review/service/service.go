package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/internal/domains/rating"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	userRepo "bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   bookRepo.BookRepository
	userRepo   userRepo.UserRepository
	aggregator *rating.Aggregator
	cache      cache.Cache
}

func NewReviewService(
	reviews repository.ReviewRepository,
	books bookRepo.BookRepository,
	users userRepo.UserRepository,
	aggregator *rating.Aggregator,
	c cache.Cache,
) ReviewService {
	return &reviewService{
		reviewRepo: reviews,
		bookRepo:   books,
		userRepo:   users,
		aggregator: aggregator,
		cache:      c,
	}
}

// recompute refreshes the book's derived fields and drops cached book
// entries that now carry a stale aggregate.
func (s *reviewService) recompute(ctx context.Context, bookID primitive.ObjectID) error {
	if err := s.aggregator.Recompute(ctx, bookID); err != nil {
		return err
	}
	if err := s.cache.DeletePattern(ctx, "books:*"); err != nil {
		logger.Error("Failed to invalidate book cache", err)
	}
	return nil
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(ctx context.Context, userID primitive.ObjectID, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		return nil, model.NewBookMissingError()
	}

	// Step 2: The book must exist
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return nil, model.NewBookMissingError()
		}
		return nil, fmt.Errorf("failed to check book: %w", err)
	}

	// Step 3: One review per (user, book). The lookup gives a friendly
	// Conflict; the unique index catches the race.
	_, err = s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return nil, model.NewAlreadyReviewedError()
	}
	if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	// Step 4: Insert
	review := &model.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		BookID:    bookID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, model.ErrAlreadyReviewed) {
			return nil, model.NewAlreadyReviewedError()
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Step 5: Recompute the book's derived fields
	if err := s.recompute(ctx, bookID); err != nil {
		return nil, fmt.Errorf("failed to recompute rating: %w", err)
	}

	return s.buildResponse(ctx, review)
}

// =====================================================
// UPDATE REVIEW
// =====================================================

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, req model.UpdateReviewRequest) (*model.ReviewResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load and check ownership. A foreign review reads as absent.
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review.UserID != userID {
		return nil, model.NewReviewNotFoundError()
	}

	// Step 3: Apply provided fields
	ratingChanged := false
	if req.Rating != nil && *req.Rating != review.Rating {
		review.Rating = *req.Rating
		ratingChanged = true
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	// Step 4: Persist
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	// Step 5: Recompute only when the rating moved
	if ratingChanged {
		if err := s.recompute(ctx, review.BookID); err != nil {
			return nil, fmt.Errorf("failed to recompute rating: %w", err)
		}
	}

	return s.buildResponse(ctx, review)
}

// =====================================================
// DELETE REVIEW
// =====================================================

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	// Step 1: Load and check ownership
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return model.NewReviewNotFoundError()
		}
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review.UserID != userID {
		return model.NewReviewNotFoundError()
	}

	// Step 2: Delete
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return model.NewReviewNotFoundError()
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	// Step 3: Recompute; an empty set resets the aggregate to zero
	if err := s.recompute(ctx, review.BookID); err != nil {
		return fmt.Errorf("failed to recompute rating: %w", err)
	}

	return nil
}

// =====================================================
// LIST REVIEWS FOR A BOOK
// =====================================================

func (s *reviewService) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	// Batch-load reviewers
	userIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, rev := range reviews {
		userIDs = append(userIDs, rev.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviewers: %w", err)
	}

	responses := make([]model.ReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		info := model.UserInfo{ID: rev.UserID}
		if u, ok := users[rev.UserID]; ok {
			info.Username = u.Username
			info.ProfileImage = u.ProfileImage
		}
		responses = append(responses, model.ReviewResponse{
			ID:        rev.ID,
			BookID:    rev.BookID,
			Rating:    rev.Rating,
			Comment:   rev.Comment,
			User:      info,
			CreatedAt: rev.CreatedAt,
			UpdatedAt: rev.UpdatedAt,
		})
	}
	return responses, nil
}

// =====================================================
// LIST REVIEWS BY A USER
// =====================================================

func (s *reviewService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.UserReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	// Batch-load reviewed books
	bookIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, rev := range reviews {
		bookIDs = append(bookIDs, rev.BookID)
	}
	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	responses := make([]model.UserReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		info := model.BookInfo{ID: rev.BookID}
		if b, ok := books[rev.BookID]; ok {
			info.Title = b.Title
			info.Author = b.Author
			info.CoverImage = b.CoverImage
		}
		responses = append(responses, model.UserReviewResponse{
			ID:        rev.ID,
			Rating:    rev.Rating,
			Comment:   rev.Comment,
			Book:      info,
			CreatedAt: rev.CreatedAt,
			UpdatedAt: rev.UpdatedAt,
		})
	}
	return responses, nil
}

func (s *reviewService) buildResponse(ctx context.Context, review *model.Review) (*model.ReviewResponse, error) {
	info := model.UserInfo{ID: review.UserID}
	if user, err := s.userRepo.GetByID(ctx, review.UserID); err == nil {
		info.Username = user.Username
		info.ProfileImage = user.ProfileImage
	}

	return &model.ReviewResponse{
		ID:        review.ID,
		BookID:    review.BookID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		User:      info,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}, nil
}

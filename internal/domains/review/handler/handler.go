package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListReviews lists all reviews for a book, newest first
// GET /api/v1/reviews?bookId=...
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	bookID, err := primitive.ObjectIDFromHex(c.Query("bookId"))
	if err != nil {
		response.BadRequest(c, "bookId query parameter is required")
		return
	}

	reviews, err := h.reviewService.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, reviews)
}

// CreateReview creates a review for a book by the authenticated user
// POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, review)
}

// UpdateReview updates the caller's own review
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Review not found or unauthorized")
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// DeleteReview deletes the caller's own review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Review not found or unauthorized")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var re *model.ReviewError
	if errors.As(err, &re) {
		switch re.Code {
		case model.ErrCodeReviewNotFound, model.ErrCodeBookMissing:
			response.NotFound(c, re.Message)
		case model.ErrCodeAlreadyReviewed:
			response.Conflict(c, re.Message)
		default:
			response.BadRequest(c, re.Message)
		}
		return
	}

	logger.Error("review handler error", err)
	response.InternalServerError(c, "Internal server error")
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

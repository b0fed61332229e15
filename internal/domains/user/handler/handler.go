package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	reviewService "bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

type UserHandler struct {
	userService   service.UserService
	reviewService reviewService.ReviewService
}

func NewUserHandler(userService service.UserService, reviews reviewService.ReviewService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		reviewService: reviews,
	}
}

// =====================================================
// AUTH
// =====================================================

// Register creates an account and signs the user in
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, auth)
}

// Login authenticates by email and password
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// =====================================================
// PROFILES
// =====================================================

// GetProfile returns a public profile together with the user's reviews
// GET /api/v1/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	profile, err := h.userService.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":    profile,
		"reviews": reviews,
	})
}

// UpdateProfile lets a user edit their own profile
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, targetID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// GetUserReviews returns a user's reviews with book summaries
// GET /api/v1/users/:id/reviews
func (h *UserHandler) GetUserReviews(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, reviews)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var ue *model.UserError
	if errors.As(err, &ue) {
		switch ue.Code {
		case model.ErrCodeUserNotFound:
			response.NotFound(c, ue.Message)
		case model.ErrCodeIdentityTaken:
			response.Conflict(c, ue.Message)
		case model.ErrCodeInvalidCredentials:
			response.Unauthorized(c, ue.Message)
		case model.ErrCodeForbidden:
			response.Forbidden(c, ue.Message)
		default:
			response.BadRequest(c, ue.Message)
		}
		return
	}

	logger.Error("user handler error", err)
	response.InternalServerError(c, "Internal server error")
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

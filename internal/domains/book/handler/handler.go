package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

const maxCoverUploadSize = 5 << 20 // 5MB

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// ListBooks lists books with pagination, search, and filters
// GET /api/v1/books
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.bookService.ListBooks(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetBook gets a book by ID
// GET /api/v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Book not found")
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// CreateBook creates a new book (admin only)
// POST /api/v1/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// UpdateBook updates a book (admin only)
// PUT /api/v1/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Book not found")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook deletes a book and cascades its reviews (admin only)
// DELETE /api/v1/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Book not found")
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}

// UploadCover uploads a cover image (admin only)
// POST /api/v1/books/:id/cover
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Book not found")
		return
	}

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "cover file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverUploadSize+1))
	if err != nil {
		response.BadRequest(c, "failed to read cover file")
		return
	}
	if len(data) > maxCoverUploadSize {
		response.BadRequest(c, "cover file exceeds 5MB")
		return
	}

	book, err := h.bookService.UploadCover(c.Request.Context(), id, data)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var be *model.BookError
	if errors.As(err, &be) {
		switch be.Code {
		case model.ErrCodeBookNotFound:
			response.NotFound(c, be.Message)
		case model.ErrCodeISBNExists:
			response.Conflict(c, be.Message)
		case model.ErrCodeInvalidCover:
			response.BadRequest(c, be.Message)
		default:
			response.BadRequest(c, be.Message)
		}
		return
	}

	logger.Error("book handler error", err)
	response.InternalServerError(c, "Internal server error")
}

// callerID extracts the authenticated user id set by AuthMiddleware.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

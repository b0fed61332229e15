package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	bookService "bookreview-backend/internal/domains/book/service"
	reviewService "bookreview-backend/internal/domains/review/service"
	userService "bookreview-backend/internal/domains/user/service"
)

const topRatedCount = 6

// PageHandler renders the HTML pages. Mutations go through the JSON
// API from client-side scripts, so pages only read.
type PageHandler struct {
	books   bookService.BookService
	reviews reviewService.ReviewService
	users   userService.UserService
}

func NewPageHandler(books bookService.BookService, reviews reviewService.ReviewService, users userService.UserService) *PageHandler {
	return &PageHandler{books: books, reviews: reviews, users: users}
}

// Index shows the landing page with the top-rated books
// GET /
func (h *PageHandler) Index(c *gin.Context) {
	top, err := h.books.ListBooks(c.Request.Context(), bookModel.ListBooksRequest{
		Sort:  bookModel.SortRating,
		Limit: topRatedCount,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": "Something went wrong"})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"topBooks": top.Books,
	})
}

// Books shows the catalog with search, filter, and sort controls
// GET /books
func (h *PageHandler) Books(c *gin.Context) {
	var req bookModel.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req = bookModel.ListBooksRequest{}
	}

	resp, err := h.books.ListBooks(c.Request.Context(), req)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": "Something went wrong"})
		return
	}

	c.HTML(http.StatusOK, "books.html", gin.H{
		"books":       resp.Books,
		"totalPages":  resp.TotalPages,
		"currentPage": resp.CurrentPage,
		"total":       resp.Total,
		"search":      c.Query("search"),
		"genre":       c.Query("genre"),
		"rating":      c.Query("rating"),
		"sort":        c.Query("sort"),
	})
}

// BookDetail shows one book with its reviews and the review form
// GET /books/:id
func (h *PageHandler) BookDetail(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"message": "Book not found"})
		return
	}

	book, err := h.books.GetBook(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"message": "Book not found"})
		return
	}

	reviews, err := h.reviews.ListByBook(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": "Something went wrong"})
		return
	}

	c.HTML(http.StatusOK, "book.html", gin.H{
		"book":    book,
		"reviews": reviews,
	})
}

// Profile shows a user's public profile and their reviews
// GET /users/:id
func (h *PageHandler) Profile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"message": "User not found"})
		return
	}

	profile, err := h.users.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"message": "User not found"})
		return
	}

	reviews, err := h.reviews.ListByUser(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": "Something went wrong"})
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"user":    profile,
		"reviews": reviews,
	})
}

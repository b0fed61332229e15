package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/middleware"
)

// stubService returns canned results so the tests can focus on the HTTP
// mapping: status codes, envelope shape, error codes.
type stubService struct {
	createResp *model.ReviewResponse
	createErr  error
	updateErr  error
	deleteErr  error
	listResp   []model.ReviewResponse
	listErr    error
}

func (s *stubService) CreateReview(ctx context.Context, userID primitive.ObjectID, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createResp, nil
}

func (s *stubService) UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, req model.UpdateReviewRequest) (*model.ReviewResponse, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.createResp, nil
}

func (s *stubService) DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	return s.deleteErr
}

func (s *stubService) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.ReviewResponse, error) {
	return s.listResp, s.listErr
}

func (s *stubService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.UserReviewResponse, error) {
	return nil, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupRouter(svc *stubService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Stand-in for AuthMiddleware
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.Hex())
	})

	h := NewReviewHandler(svc)
	r.GET("/reviews", h.ListReviews)
	r.POST("/reviews", h.CreateReview)
	r.PUT("/reviews/:id", h.UpdateReview)
	r.DELETE("/reviews/:id", h.DeleteReview)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateReviewCreated(t *testing.T) {
	svc := &stubService{createResp: &model.ReviewResponse{
		ID:      primitive.NewObjectID(),
		Rating:  5,
		Comment: "A quiet, patient book that rewards attention.",
	}}
	r := setupRouter(svc, primitive.NewObjectID())

	w, env := doJSON(t, r, http.MethodPost, "/reviews", model.CreateReviewRequest{
		BookID:  primitive.NewObjectID().Hex(),
		Rating:  5,
		Comment: "A quiet, patient book that rewards attention.",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
}

func TestCreateReviewDuplicateMapsToConflict(t *testing.T) {
	svc := &stubService{createErr: model.NewAlreadyReviewedError()}
	r := setupRouter(svc, primitive.NewObjectID())

	w, env := doJSON(t, r, http.MethodPost, "/reviews", model.CreateReviewRequest{
		BookID:  primitive.NewObjectID().Hex(),
		Rating:  5,
		Comment: "A quiet, patient book that rewards attention.",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestCreateReviewValidationDetails(t *testing.T) {
	// Real service-level validation error, passed through the stub
	req := model.CreateReviewRequest{
		BookID:  primitive.NewObjectID().Hex(),
		Rating:  5,
		Comment: "meh",
	}
	svc := &stubService{createErr: req.Validate()}
	r := setupRouter(svc, primitive.NewObjectID())

	w, env := doJSON(t, r, http.MethodPost, "/reviews", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "comment")
}

func TestUpdateReviewForeignMapsToNotFound(t *testing.T) {
	svc := &stubService{updateErr: model.NewReviewNotFoundError()}
	r := setupRouter(svc, primitive.NewObjectID())

	rating := 3
	w, env := doJSON(t, r, http.MethodPut, "/reviews/"+primitive.NewObjectID().Hex(), model.UpdateReviewRequest{Rating: &rating})

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Review not found or unauthorized", env.Error.Message)
}

func TestDeleteReviewOK(t *testing.T) {
	svc := &stubService{}
	r := setupRouter(svc, primitive.NewObjectID())

	w, env := doJSON(t, r, http.MethodDelete, "/reviews/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestListReviewsRequiresBookID(t *testing.T) {
	svc := &stubService{}
	r := setupRouter(svc, primitive.NewObjectID())

	w, env := doJSON(t, r, http.MethodGet, "/reviews", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
}

package service

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/rating"
	"bookreview-backend/internal/domains/review/model"
	userModel "bookreview-backend/internal/domains/user/model"
)

// =====================================================
// IN-MEMORY FAKES
// =====================================================

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*model.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *model.Review) error {
	for _, r := range f.reviews {
		if r.UserID == review.UserID && r.BookID == review.BookID {
			return model.ErrAlreadyReviewed
		}
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) GetByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*model.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.BookID == bookID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepo) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.reviews {
		if r.BookID == bookID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return model.ErrReviewNotFound
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.reviews[id]; !ok {
		return model.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	var n int64
	for id, r := range f.reviews {
		if r.BookID == bookID {
			delete(f.reviews, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeReviewRepo) ListRatingsByBook(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	var out []int
	for _, r := range f.reviews {
		if r.BookID == bookID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

type fakeBookRepo struct {
	books map[primitive.ObjectID]*bookModel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[primitive.ObjectID]*bookModel.Book)}
}

func (f *fakeBookRepo) Create(ctx context.Context, book *bookModel.Book) error {
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*bookModel.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*bookModel.Book, error) {
	out := make(map[primitive.ObjectID]*bookModel.Book)
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			cp := *b
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeBookRepo) List(ctx context.Context, q bookModel.ListQuery) ([]bookModel.Book, int64, error) {
	var out []bookModel.Book
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book *bookModel.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return bookModel.ErrBookNotFound
	}
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.books[id]; !ok {
		return bookModel.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) UpdateRating(ctx context.Context, id primitive.ObjectID, avgRating float64, reviewCount int) error {
	b, ok := f.books[id]
	if !ok {
		// Missing book is a no-op, matching the real repository.
		return nil
	}
	b.AvgRating = avgRating
	b.ReviewCount = reviewCount
	return nil
}

func (f *fakeBookRepo) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for id := range f.books {
		out = append(out, id)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*userModel.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*userModel.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *userModel.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*userModel.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userModel.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userModel.ErrUserNotFound
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*userModel.User, error) {
	out := make(map[primitive.ObjectID]*userModel.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *userModel.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return userModel.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) IdentityTaken(ctx context.Context, excludeID primitive.ObjectID, username, email string) (bool, error) {
	for id, u := range f.users {
		if id == excludeID {
			continue
		}
		if username != "" && u.Username == username {
			return true, nil
		}
		if email != "" && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error          { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error   { return nil }
func (noopCache) Ping(ctx context.Context) error                            { return nil }

// =====================================================
// FIXTURE
// =====================================================

type fixture struct {
	svc     ReviewService
	reviews *fakeReviewRepo
	books   *fakeBookRepo
	users   *fakeUserRepo
	bookID  primitive.ObjectID
	userID  primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reviews := newFakeReviewRepo()
	books := newFakeBookRepo()
	users := newFakeUserRepo()

	bookID := primitive.NewObjectID()
	require.NoError(t, books.Create(context.Background(), &bookModel.Book{
		ID:     bookID,
		Title:  "The Left Hand of Darkness",
		Author: "Ursula K. Le Guin",
		Genre:  "Science Fiction",
	}))

	userID := primitive.NewObjectID()
	require.NoError(t, users.Create(context.Background(), &userModel.User{
		ID:       userID,
		Username: "genly",
		Email:    "genly@example.com",
	}))

	agg := rating.NewAggregator(reviews, books)
	svc := NewReviewService(reviews, books, users, agg, noopCache{})

	return &fixture{
		svc:     svc,
		reviews: reviews,
		books:   books,
		users:   users,
		bookID:  bookID,
		userID:  userID,
	}
}

func validCreateRequest(bookID primitive.ObjectID, ratingValue int) model.CreateReviewRequest {
	return model.CreateReviewRequest{
		BookID:  bookID.Hex(),
		Rating:  ratingValue,
		Comment: "A quiet, patient book that rewards attention.",
	}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateReviewUpdatesAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, "genly", resp.User.Username)

	book, err := f.books.GetByID(ctx, f.bookID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, book.AvgRating, 1e-9)
	assert.Equal(t, 1, book.ReviewCount)
}

func TestCreateReviewAggregateRounding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, r := range []int{5, 4, 5} {
		otherUser := primitive.NewObjectID()
		require.NoError(t, f.users.Create(ctx, &userModel.User{ID: otherUser, Username: "u"}))
		_, err := f.svc.CreateReview(ctx, otherUser, validCreateRequest(f.bookID, r))
		require.NoError(t, err)
	}

	book, err := f.books.GetByID(ctx, f.bookID)
	require.NoError(t, err)
	assert.InDelta(t, 4.7, book.AvgRating, 1e-9)
	assert.Equal(t, 3, book.ReviewCount)
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 5))
	require.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 1))
	require.Error(t, err)

	var re *model.ReviewError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.ErrCodeAlreadyReviewed, re.Code)

	// First review and aggregate are untouched
	book, err := f.books.GetByID(ctx, f.bookID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, book.AvgRating, 1e-9)
	assert.Equal(t, 1, book.ReviewCount)
	assert.Len(t, f.reviews.reviews, 1)
}

func TestCreateReviewMissingBook(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateReview(context.Background(), f.userID, validCreateRequest(primitive.NewObjectID(), 4))
	require.Error(t, err)

	var re *model.ReviewError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.ErrCodeBookMissing, re.Code)
	assert.Empty(t, f.reviews.reviews)
}

func TestCreateReviewShortCommentNamesField(t *testing.T) {
	f := newFixture(t)

	req := validCreateRequest(f.bookID, 4)
	req.Comment = "meh"

	_, err := f.svc.CreateReview(context.Background(), f.userID, req)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "comment")

	// Nothing persisted
	assert.Empty(t, f.reviews.reviews)
	book, err := f.books.GetByID(context.Background(), f.bookID)
	require.NoError(t, err)
	assert.Zero(t, book.ReviewCount)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	f := newFixture(t)

	req := validCreateRequest(f.bookID, 6)
	_, err := f.svc.CreateReview(context.Background(), f.userID, req)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "rating")
}

// =====================================================
// UPDATE
// =====================================================

func TestUpdateReviewRecomputesOnRatingChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 2))
	require.NoError(t, err)

	newRating := 5
	updated, err := f.svc.UpdateReview(ctx, f.userID, created.ID, model.UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	book, err := f.books.GetByID(ctx, f.bookID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, book.AvgRating, 1e-9)
}

func TestUpdateReviewByNonOwnerReadsAsAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 4))
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	newRating := 1
	_, err = f.svc.UpdateReview(ctx, stranger, created.ID, model.UpdateReviewRequest{Rating: &newRating})
	require.Error(t, err)

	var re *model.ReviewError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.ErrCodeReviewNotFound, re.Code)

	// Review unchanged
	stored, err := f.reviews.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Rating)
}

// =====================================================
// DELETE
// =====================================================

func TestDeleteReviewResetsAggregateWhenLast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 5))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteReview(ctx, f.userID, created.ID))

	book, err := f.books.GetByID(ctx, f.bookID)
	require.NoError(t, err)
	assert.Zero(t, book.AvgRating)
	assert.Zero(t, book.ReviewCount)
}

func TestDeleteReviewByNonOwnerReadsAsAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 5))
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, primitive.NewObjectID(), created.ID)
	require.Error(t, err)

	var re *model.ReviewError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.ErrCodeReviewNotFound, re.Code)
	assert.Len(t, f.reviews.reviews, 1)
}

// =====================================================
// LISTING
// =====================================================

func TestListByBookAttachesReviewers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 4))
	require.NoError(t, err)

	reviews, err := f.svc.ListByBook(ctx, f.bookID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "genly", reviews[0].User.Username)
}

func TestListByUserAttachesBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, f.userID, validCreateRequest(f.bookID, 4))
	require.NoError(t, err)

	reviews, err := f.svc.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "The Left Hand of Darkness", reviews[0].Book.Title)
}

package rating

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewSource yields the current rating values for a book.
type ReviewSource interface {
	ListRatingsByBook(ctx context.Context, bookID primitive.ObjectID) ([]int, error)
}

// BookSink persists the derived aggregate. Implementations must treat a
// missing book as a no-op so a concurrent book deletion does not fail the
// recompute.
type BookSink interface {
	UpdateRating(ctx context.Context, id primitive.ObjectID, avgRating float64, reviewCount int) error
}

// Aggregator keeps Book.avgRating and Book.reviewCount consistent with the
// live review set. It recomputes from the full set on every call rather than
// adjusting a running sum; the full scan is self-healing after races.
type Aggregator struct {
	reviews ReviewSource
	books   BookSink
}

func NewAggregator(reviews ReviewSource, books BookSink) *Aggregator {
	return &Aggregator{
		reviews: reviews,
		books:   books,
	}
}

// Recompute reads the review set as of now and writes the derived fields.
// The guarantee is read-time consistency only; two concurrent writers may
// interleave and leave a stale aggregate until the next mutation or the
// periodic sweep reconciles it.
func (a *Aggregator) Recompute(ctx context.Context, bookID primitive.ObjectID) error {
	ratings, err := a.reviews.ListRatingsByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}

	avg, count := Summarize(ratings)

	if err := a.books.UpdateRating(ctx, bookID, avg, count); err != nil {
		return fmt.Errorf("failed to persist aggregate: %w", err)
	}
	return nil
}

// Summarize computes the review count and the mean rating rounded to one
// decimal place, half away from zero. An empty set resets both to zero.
func Summarize(ratings []int) (avgRating float64, reviewCount int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}

	avg := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(1)

	return avg.InexactFloat64(), len(ratings)
}

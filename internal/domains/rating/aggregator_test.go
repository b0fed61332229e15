package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{name: "empty set resets to zero", ratings: nil, wantAvg: 0, wantCount: 0},
		{name: "single rating", ratings: []int{4}, wantAvg: 4, wantCount: 1},
		{name: "rounds to one decimal", ratings: []int{5, 4, 5}, wantAvg: 4.7, wantCount: 3},
		{name: "exact half rounds away from zero", ratings: []int{4, 5}, wantAvg: 4.5, wantCount: 2},
		{name: "repeating third truncates to one decimal", ratings: []int{3, 3, 4}, wantAvg: 3.3, wantCount: 3},
		{name: "half at second decimal rounds up", ratings: []int{1, 2, 2, 2}, wantAvg: 1.8, wantCount: 4},
		{name: "all fives", ratings: []int{5, 5, 5, 5, 5}, wantAvg: 5, wantCount: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := Summarize(tt.ratings)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

type stubSource struct {
	ratings []int
	err     error
}

func (s *stubSource) ListRatingsByBook(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	return s.ratings, s.err
}

type recordingSink struct {
	avg   float64
	count int
	calls int
	err   error
}

func (s *recordingSink) UpdateRating(ctx context.Context, id primitive.ObjectID, avgRating float64, reviewCount int) error {
	s.calls++
	s.avg = avgRating
	s.count = reviewCount
	return s.err
}

func TestAggregatorRecompute(t *testing.T) {
	source := &stubSource{ratings: []int{5, 4, 5}}
	sink := &recordingSink{}
	agg := NewAggregator(source, sink)

	err := agg.Recompute(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, 1, sink.calls)
	assert.InDelta(t, 4.7, sink.avg, 1e-9)
	assert.Equal(t, 3, sink.count)
}

func TestAggregatorRecomputeEmptySet(t *testing.T) {
	source := &stubSource{ratings: nil}
	sink := &recordingSink{avg: 4.2, count: 9}
	agg := NewAggregator(source, sink)

	err := agg.Recompute(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Zero(t, sink.avg)
	assert.Zero(t, sink.count)
}

func TestAggregatorRecomputeSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("boom")}
	sink := &recordingSink{}
	agg := NewAggregator(source, sink)

	err := agg.Recompute(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Zero(t, sink.calls)
}

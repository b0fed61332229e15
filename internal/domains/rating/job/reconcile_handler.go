package job

import (
	"context"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/rating"
	"bookreview-backend/pkg/logger"
)

// ================================================
// RATING RECONCILIATION JOB HANDLER
// ================================================
// Aggregates are maintained by read-then-write sequences without a
// cross-document transaction, so concurrent review writes can leave a book's
// avgRating/reviewCount briefly stale. This sweep recomputes every book and
// bounds that drift.

// BookLister yields every book id to reconcile.
type BookLister interface {
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type ReconcileRatingsHandler struct {
	books      BookLister
	aggregator *rating.Aggregator
}

func NewReconcileRatingsHandler(books BookLister, aggregator *rating.Aggregator) *ReconcileRatingsHandler {
	return &ReconcileRatingsHandler{
		books:      books,
		aggregator: aggregator,
	}
}

func (h *ReconcileRatingsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	ids, err := h.books.ListIDs(ctx)
	if err != nil {
		logger.Error("Failed to list books for reconciliation", err)
		return err
	}

	logger.Info("Starting rating reconciliation sweep", map[string]interface{}{
		"books": len(ids),
	})

	var failed int
	for _, id := range ids {
		if err := h.aggregator.Recompute(ctx, id); err != nil {
			logger.Error("Failed to reconcile book rating", err)
			failed++
		}
	}

	logger.Info("Rating reconciliation sweep finished", map[string]interface{}{
		"books":  len(ids),
		"failed": failed,
	})
	return nil
}

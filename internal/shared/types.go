package shared

// Asynq task types and queues.
const (
	TypeReconcileRatings = "rating:reconcile_all"

	QueueRating = "rating"
)

// ReconcileRatingsPayload is the (empty) payload for the periodic sweep.
type ReconcileRatingsPayload struct{}

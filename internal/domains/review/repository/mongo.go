package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/infrastructure/database"
)

type mongoReviewRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.MongoDB) ReviewRepository {
	return &mongoReviewRepository{
		collection: db.Collection(database.ReviewsCollection),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		// The unique (userId, bookId) index closes the check-then-insert race.
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *mongoReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (r *mongoReviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*model.Review, error) {
	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "bookId": bookID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (r *mongoReviewRepository) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.Review, error) {
	return r.list(ctx, bson.M{"bookId": bookID})
}

func (r *mongoReviewRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Review, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

// newestFirst orders every review listing, for books and profiles alike.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *mongoReviewRepository) list(ctx context.Context, filter bson.M) ([]model.Review, error) {
	opts := options.Find().SetSort(newestFirst)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]model.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, review *model.Review) error {
	review.UpdatedAt = time.Now()

	result, err := r.collection.UpdateByID(ctx, review.ID, bson.M{"$set": bson.M{
		"rating":    review.Rating,
		"comment":   review.Comment,
		"updatedAt": review.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if result.MatchedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"bookId": bookID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoReviewRepository) ListRatingsByBook(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"bookId": bookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Rating int `bson:"rating"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	ratings := make([]int, 0, len(docs))
	for _, d := range docs {
		ratings = append(ratings, d.Rating)
	}
	return ratings, nil
}

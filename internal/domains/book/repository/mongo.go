package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/database"
)

type mongoBookRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.MongoDB) BookRepository {
	return &mongoBookRepository{
		collection: db.Collection(database.BooksCollection),
	}
}

func (r *mongoBookRepository) Create(ctx context.Context, book *model.Book) error {
	_, err := r.collection.InsertOne(ctx, book)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrISBNExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *mongoBookRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	var book model.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return &book, nil
}

func (r *mongoBookRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Book, error) {
	books := make(map[primitive.ObjectID]*model.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var book model.Book
		if err := cursor.Decode(&book); err != nil {
			return nil, fmt.Errorf("failed to decode book: %w", err)
		}
		books[book.ID] = &book
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func (r *mongoBookRepository) List(ctx context.Context, q model.ListQuery) ([]model.Book, int64, error) {
	filter := bson.M{}

	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Genre != "" {
		filter["genre"] = q.Genre
	}
	if q.MinRating > 0 {
		filter["avgRating"] = bson.M{"$gte": q.MinRating}
	}

	opts := options.Find().
		SetSort(sortSpec(q.Sort)).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer cursor.Close(ctx)

	books := make([]model.Book, 0, q.Limit)
	if err := cursor.All(ctx, &books); err != nil {
		return nil, 0, fmt.Errorf("failed to decode books: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	return books, total, nil
}

// sortSpec maps a sort key to a Mongo sort document. Unknown keys fall back
// to newest-first.
func sortSpec(key string) bson.D {
	switch key {
	case model.SortTitle:
		return bson.D{{Key: "title", Value: 1}}
	case model.SortAuthor:
		return bson.D{{Key: "author", Value: 1}}
	case model.SortRating:
		return bson.D{{Key: "avgRating", Value: -1}}
	case model.SortReviews:
		return bson.D{{Key: "reviewCount", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (r *mongoBookRepository) Update(ctx context.Context, book *model.Book) error {
	book.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":         book.Title,
		"author":        book.Author,
		"genre":         book.Genre,
		"description":   book.Description,
		"coverImage":    book.CoverImage,
		"publishedDate": book.PublishedDate,
		"isbn":          book.ISBN,
		"pages":         book.Pages,
		"updatedAt":     book.UpdatedAt,
	}}

	result, err := r.collection.UpdateByID(ctx, book.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrISBNExists
		}
		return fmt.Errorf("failed to update book: %w", err)
	}
	if result.MatchedCount == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *mongoBookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if result.DeletedCount == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *mongoBookRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, avgRating float64, reviewCount int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"avgRating":   avgRating,
		"reviewCount": reviewCount,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update book rating: %w", err)
	}
	// MatchedCount == 0 means the book is gone; the aggregate dies with it.
	return nil
}

func (r *mongoBookRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list book ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode book ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

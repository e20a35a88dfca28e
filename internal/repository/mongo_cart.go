package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongoDB opens the cart database. Carts are small and per-user, so
// the pool is kept modest.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoCartStore struct {
	collection *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) CartStore {
	return &mongoCartStore{
		collection: db.Collection("cart_lines"),
	}
}

func (m *mongoCartStore) AddLine(ctx context.Context, line *domain.CartLine) error {
	if _, err := m.collection.InsertOne(ctx, line); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}

func (m *mongoCartStore) GetLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	filter := bson.M{"user_id": userID}
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []domain.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}
	return lines, nil
}

func (m *mongoCartStore) UpdateQuantity(ctx context.Context, userID, bookID int64, quantity int) error {
	var line domain.CartLine
	filter := bson.M{"user_id": userID, "book_id": bookID}
	if err := m.collection.FindOne(ctx, filter).Decode(&line); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrLineNotFound
		}
		return fmt.Errorf("failed to get cart line: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"quantity":   quantity,
		"line_total": line.Price * float64(quantity),
	}}
	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart line quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (m *mongoCartStore) RemoveLine(ctx context.Context, userID, bookID int64) error {
	filter := bson.M{"user_id": userID, "book_id": bookID}
	res, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (m *mongoCartStore) Clear(ctx context.Context, userID int64) error {
	filter := bson.M{"user_id": userID}
	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Package mongostore implements storage.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/storage"
)

const (
	billsCollection    = "bills"
	paymentsCollection = "payments"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store wraps the bills and payments collections of one database.
type Store struct {
	client   *mongo.Client
	bills    *mongo.Collection
	payments *mongo.Collection
}

// New connects to MongoDB, pings it and ensures the owner indexes exist.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := NewFromDatabase(client.Database(dbName))
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// NewFromDatabase wraps an existing database handle.
func NewFromDatabase(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		bills:    db.Collection(billsCollection),
		payments: db.Collection(paymentsCollection),
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.bills.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create bills index: %w", err)
	}
	if _, err := s.payments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "billId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create payments indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// SaveBill replaces the bill document, inserting it if absent. The filter
// includes the owner, so an _id held by another owner surfaces as a duplicate
// key on the upsert.
func (s *Store) SaveBill(ctx context.Context, bill *models.Bill) error {
	var existing models.Bill
	err := s.bills.FindOne(ctx, bson.M{"_id": bill.ID}).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return fmt.Errorf("failed to find bill: %w", err)
	case existing.OwnerID != bill.OwnerID:
		return storage.ErrBillOwnedByAnother
	default:
		bill.CreatedAt = existing.CreatedAt
	}

	now := time.Now().Unix()
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err = s.bills.ReplaceOne(ctx, bson.M{"_id": bill.ID, "ownerId": bill.OwnerID}, bill, opts)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrBillOwnedByAnother
	}
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

// ListBillsFor returns the owner's bills ordered by name.
func (s *Store) ListBillsFor(ctx context.Context, ownerID string) ([]models.Bill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.bills.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	defer cursor.Close(ctx)

	bills := []models.Bill{}
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, fmt.Errorf("failed to decode bills: %w", err)
	}
	return bills, nil
}

// CreatePayment inserts a payment document.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.payments.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicatePayment
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPaymentsFor returns the owner's payments ordered by timestamp.
func (s *Store) ListPaymentsFor(ctx context.Context, ownerID string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.payments.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// ListOwners returns the distinct owners of stored bills.
func (s *Store) ListOwners(ctx context.Context) ([]string, error) {
	values, err := s.bills.Distinct(ctx, "ownerId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if owner, ok := v.(string); ok && owner != "" {
			owners = append(owners, owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

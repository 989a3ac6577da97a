package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"ghost-detector-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const scanLogCollection = "scan_logs"

// MongoScanLogger implements ScanLogger using MongoDB.
type MongoScanLogger struct {
	db *mongo.Database
}

// NewMongoScanLogger creates and returns a new MongoScanLogger instance.
// It requires a connected MongoDB database instance.
func NewMongoScanLogger(db *mongo.Database) *MongoScanLogger {
	return &MongoScanLogger{db: db}
}

// LogScan writes a scan audit entry to the database.
func (m *MongoScanLogger) LogScan(ctx context.Context, entry models.ScanLog) error {
	collection := m.db.Collection(scanLogCollection)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := collection.InsertOne(ctx, entry)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to insert scan log into collection '%s': %w", scanLogCollection, err)
		log.Printf("%v", wrappedErr)
		return wrappedErr
	}
	return nil
}

// NoopScanLogger is used when no MongoDB connection is configured.
type NoopScanLogger struct{}

// LogScan discards the entry.
func (NoopScanLogger) LogScan(context.Context, models.ScanLog) error { return nil }

// Package store defines the persistence interface consumed by the service
// and its in-memory and Firestore implementations.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the database operations used by the service. The analytics
// engine never touches this interface; handlers load collections through it
// and hand them to the engine.
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	GetTransaction(ctx context.Context, txID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, txID string) error
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// Category limit operations
	CreateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error
	GetCategoryLimit(ctx context.Context, limitID string) (*model.CategoryLimit, error)
	UpdateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error
	DeleteCategoryLimit(ctx context.Context, limitID string) error
	ListCategoryLimits(ctx context.Context, userID string) ([]*model.CategoryLimit, error)

	// Recurring transaction operations
	CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error
	GetRecurringTransaction(ctx context.Context, rtID string) (*model.RecurringTransaction, error)
	UpdateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error
	DeleteRecurringTransaction(ctx context.Context, rtID string) error
	ListRecurringTransactions(ctx context.Context, userID string) ([]*model.RecurringTransaction, error)

	// Analytics settings operations
	GetAnalyticsSettings(ctx context.Context, userID string) (*model.AnalyticsSettings, error)
	UpdateAnalyticsSettings(ctx context.Context, settings *model.AnalyticsSettings) error
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/finsightapp/backend/internal/model"
)

// Firestore collection names.
const (
	collectionTransactions = "transactions"
	collectionLimits       = "categoryLimits"
	collectionRecurring    = "recurringTransactions"
	collectionSettings     = "analyticsSettings"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// applyDateAwarePagination handles pagination for queries with date range
// filters. Firestore requires OrderBy on the inequality field first, so we
// order by date then document ID; the cursor document supplies both values
// for a composite StartAfter.
func (s *FirestoreStore) applyDateAwarePagination(ctx context.Context, query firestore.Query, collection string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy("date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		dateVal := cursorDoc.Data()["date"]
		query = query.StartAfter(dateVal, docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize))
	return query, nil
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func (s *FirestoreStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	_, err := s.client.Collection(collectionTransactions).Doc(tx.ID).Set(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(collectionTransactions).Doc(txID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	var tx model.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return &tx, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	_, err := s.client.Collection(collectionTransactions).Doc(tx.ID).Set(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, txID string) error {
	_, err := s.client.Collection(collectionTransactions).Doc(txID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection(collectionTransactions).Query
	if userID != "" {
		query = query.Where("userId", "==", userID)
	}
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<", *endDate)
	}

	query, err := s.applyDateAwarePagination(ctx, query, collectionTransactions, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	var results []*model.Transaction
	lastDocID := ""
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to list transactions: %w", err)
		}
		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, "", fmt.Errorf("failed to decode transaction: %w", err)
		}
		results = append(results, &tx)
		lastDocID = doc.Ref.ID
	}

	nextToken := ""
	if pageSize > 0 && int32(len(results)) == pageSize {
		nextToken = EncodePageToken(lastDocID)
	}
	return results, nextToken, nil
}

// ---------------------------------------------------------------------------
// Category limits
// ---------------------------------------------------------------------------

func (s *FirestoreStore) CreateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error {
	_, err := s.client.Collection(collectionLimits).Doc(limit.ID).Set(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to create category limit: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetCategoryLimit(ctx context.Context, limitID string) (*model.CategoryLimit, error) {
	doc, err := s.client.Collection(collectionLimits).Doc(limitID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category limit: %w", err)
	}
	var limit model.CategoryLimit
	if err := doc.DataTo(&limit); err != nil {
		return nil, fmt.Errorf("failed to decode category limit: %w", err)
	}
	return &limit, nil
}

func (s *FirestoreStore) UpdateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error {
	_, err := s.client.Collection(collectionLimits).Doc(limit.ID).Set(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to update category limit: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteCategoryLimit(ctx context.Context, limitID string) error {
	_, err := s.client.Collection(collectionLimits).Doc(limitID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete category limit: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListCategoryLimits(ctx context.Context, userID string) ([]*model.CategoryLimit, error) {
	query := s.client.Collection(collectionLimits).Query
	if userID != "" {
		query = query.Where("userId", "==", userID)
	}
	query = query.OrderBy("category", firestore.Asc)

	var results []*model.CategoryLimit
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list category limits: %w", err)
		}
		var limit model.CategoryLimit
		if err := doc.DataTo(&limit); err != nil {
			return nil, fmt.Errorf("failed to decode category limit: %w", err)
		}
		results = append(results, &limit)
	}
	return results, nil
}

// ---------------------------------------------------------------------------
// Recurring transactions
// ---------------------------------------------------------------------------

func (s *FirestoreStore) CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error {
	_, err := s.client.Collection(collectionRecurring).Doc(rt.ID).Set(ctx, rt)
	if err != nil {
		return fmt.Errorf("failed to create recurring transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetRecurringTransaction(ctx context.Context, rtID string) (*model.RecurringTransaction, error) {
	doc, err := s.client.Collection(collectionRecurring).Doc(rtID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recurring transaction: %w", err)
	}
	var rt model.RecurringTransaction
	if err := doc.DataTo(&rt); err != nil {
		return nil, fmt.Errorf("failed to decode recurring transaction: %w", err)
	}
	return &rt, nil
}

func (s *FirestoreStore) UpdateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error {
	_, err := s.client.Collection(collectionRecurring).Doc(rt.ID).Set(ctx, rt)
	if err != nil {
		return fmt.Errorf("failed to update recurring transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteRecurringTransaction(ctx context.Context, rtID string) error {
	_, err := s.client.Collection(collectionRecurring).Doc(rtID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete recurring transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListRecurringTransactions(ctx context.Context, userID string) ([]*model.RecurringTransaction, error) {
	query := s.client.Collection(collectionRecurring).Query
	if userID != "" {
		query = query.Where("userId", "==", userID)
	}
	query = query.OrderBy("name", firestore.Asc)

	var results []*model.RecurringTransaction
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
		}
		var rt model.RecurringTransaction
		if err := doc.DataTo(&rt); err != nil {
			return nil, fmt.Errorf("failed to decode recurring transaction: %w", err)
		}
		results = append(results, &rt)
	}
	return results, nil
}

// ---------------------------------------------------------------------------
// Analytics settings
// ---------------------------------------------------------------------------

func (s *FirestoreStore) GetAnalyticsSettings(ctx context.Context, userID string) (*model.AnalyticsSettings, error) {
	doc, err := s.client.Collection(collectionSettings).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			defaults := model.DefaultAnalyticsSettings(userID)
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to get analytics settings: %w", err)
	}
	var settings model.AnalyticsSettings
	if err := doc.DataTo(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode analytics settings: %w", err)
	}
	return &settings, nil
}

func (s *FirestoreStore) UpdateAnalyticsSettings(ctx context.Context, settings *model.AnalyticsSettings) error {
	_, err := s.client.Collection(collectionSettings).Doc(settings.UserID).Set(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to update analytics settings: %w", err)
	}
	return nil
}

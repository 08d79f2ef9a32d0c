package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for local
// development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	limits       map[string]*model.CategoryLimit
	recurring    map[string]*model.RecurringTransaction
	settings     map[string]*model.AnalyticsSettings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		limits:       make(map[string]*model.CategoryLimit),
		recurring:    make(map[string]*model.RecurringTransaction),
		settings:     make(map[string]*model.AnalyticsSettings),
	}
}

// paginateIDs applies cursor-based pagination to a sorted slice of IDs.
// Returns the page of IDs and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	sort.Strings(ids)

	startIdx := 0
	if pageToken != "" {
		cursor, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", err
		}
		for i, id := range ids {
			if id > cursor {
				startIdx = i
				break
			}
			startIdx = len(ids)
		}
	}

	endIdx := startIdx + int(pageSize)
	if endIdx > len(ids) {
		endIdx = len(ids)
	}

	nextToken := ""
	if endIdx < len(ids) {
		nextToken = EncodePageToken(ids[endIdx-1])
	}
	return ids[startIdx:endIdx], nextToken, nil
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func (s *MemoryStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.transactions[tx.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[txID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.ID]; !ok {
		return ErrNotFound
	}
	cp := *tx
	s.transactions[tx.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[txID]; !ok {
		return ErrNotFound
	}
	delete(s.transactions, txID)
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, tx := range s.transactions {
		if userID != "" && tx.UserID != userID {
			continue
		}
		if startDate != nil && tx.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && !tx.Date.Before(*endDate) {
			continue
		}
		ids = append(ids, id)
	}

	page, nextToken, err := paginateIDs(ids, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	results := make([]*model.Transaction, 0, len(page))
	for _, id := range page {
		cp := *s.transactions[id]
		results = append(results, &cp)
	}
	return results, nextToken, nil
}

// ---------------------------------------------------------------------------
// Category limits
// ---------------------------------------------------------------------------

func (s *MemoryStore) CreateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *limit
	s.limits[limit.ID] = &cp
	return nil
}

func (s *MemoryStore) GetCategoryLimit(ctx context.Context, limitID string) (*model.CategoryLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit, ok := s.limits[limitID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *limit
	return &cp, nil
}

func (s *MemoryStore) UpdateCategoryLimit(ctx context.Context, limit *model.CategoryLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.limits[limit.ID]; !ok {
		return ErrNotFound
	}
	cp := *limit
	s.limits[limit.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteCategoryLimit(ctx context.Context, limitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.limits[limitID]; !ok {
		return ErrNotFound
	}
	delete(s.limits, limitID)
	return nil
}

func (s *MemoryStore) ListCategoryLimits(ctx context.Context, userID string) ([]*model.CategoryLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*model.CategoryLimit
	for _, limit := range s.limits {
		if userID != "" && limit.UserID != userID {
			continue
		}
		cp := *limit
		results = append(results, &cp)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Category < results[j].Category })
	return results, nil
}

// ---------------------------------------------------------------------------
// Recurring transactions
// ---------------------------------------------------------------------------

func (s *MemoryStore) CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rt
	s.recurring[rt.ID] = &cp
	return nil
}

func (s *MemoryStore) GetRecurringTransaction(ctx context.Context, rtID string) (*model.RecurringTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.recurring[rtID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (s *MemoryStore) UpdateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recurring[rt.ID]; !ok {
		return ErrNotFound
	}
	cp := *rt
	s.recurring[rt.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteRecurringTransaction(ctx context.Context, rtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recurring[rtID]; !ok {
		return ErrNotFound
	}
	delete(s.recurring, rtID)
	return nil
}

func (s *MemoryStore) ListRecurringTransactions(ctx context.Context, userID string) ([]*model.RecurringTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*model.RecurringTransaction
	for _, rt := range s.recurring {
		if userID != "" && rt.UserID != userID {
			continue
		}
		cp := *rt
		results = append(results, &cp)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// ---------------------------------------------------------------------------
// Analytics settings
// ---------------------------------------------------------------------------

func (s *MemoryStore) GetAnalyticsSettings(ctx context.Context, userID string) (*model.AnalyticsSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[userID]
	if !ok {
		defaults := model.DefaultAnalyticsSettings(userID)
		return &defaults, nil
	}
	cp := *settings
	return &cp, nil
}

func (s *MemoryStore) UpdateAnalyticsSettings(ctx context.Context, settings *model.AnalyticsSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *settings
	s.settings[settings.UserID] = &cp
	return nil
}

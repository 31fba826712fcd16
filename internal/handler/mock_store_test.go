package handler

import (
	"context"
	"fmt"
	"sync"

	"crediwise/internal/domain"
)

// MockStore is an in-memory Store. Setting an *Err field makes the matching
// call fail.
type MockStore struct {
	mu sync.Mutex

	Users       map[string]*domain.User // by email
	Cards       []domain.Card
	Offers      []domain.ComparisonOffer
	UserCards   map[string][]any
	UserSavings map[string]*domain.SavingsSummary
	Metrics     []domain.SavingsMetric
	Checkouts   map[string]*domain.CheckoutRecord
	NextToken   string

	FindUserErr     error
	CreateUserErr   error
	UserExistsErr   error
	ListCardsErr    error
	OffersErr       error
	UserCardsErr    error
	ReplaceCardsErr error
	UserSavingsErr  error
	MetricsErr      error
	CreateCheckErr  error
	FindCheckErr    error
	PingErr         error

	Replaced []any
	Created  []domain.CheckoutRecord
}

func NewMockStore() *MockStore {
	return &MockStore{
		Users:       map[string]*domain.User{},
		UserCards:   map[string][]any{},
		UserSavings: map[string]*domain.SavingsSummary{},
		Checkouts:   map[string]*domain.CheckoutRecord{},
		NextToken:   "3f2b8c1e-9d4a-4e6f-8b7c-2a1d0e9f8c7b",
	}
}

func (m *MockStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindUserErr != nil {
		return nil, m.FindUserErr
	}
	return m.Users[email], nil
}

func (m *MockStore) CreateUser(_ context.Context, email, firstName, lastName string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	u := &domain.User{
		ID:        fmt.Sprintf("user-%d", len(m.Users)+1),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	m.Users[email] = u
	return u, nil
}

func (m *MockStore) UserExists(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UserExistsErr != nil {
		return false, m.UserExistsErr
	}
	for _, u := range m.Users {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStore) ListCards(context.Context) ([]domain.Card, error) {
	if m.ListCardsErr != nil {
		return nil, m.ListCardsErr
	}
	return m.Cards, nil
}

func (m *MockStore) ListComparisonOffers(context.Context) ([]domain.ComparisonOffer, error) {
	if m.OffersErr != nil {
		return nil, m.OffersErr
	}
	return m.Offers, nil
}

func (m *MockStore) ListUserCardIDs(_ context.Context, userID string) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UserCardsErr != nil {
		return nil, m.UserCardsErr
	}
	return m.UserCards[userID], nil
}

func (m *MockStore) ReplaceUserCards(_ context.Context, userID string, cardIDs []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceCardsErr != nil {
		return m.ReplaceCardsErr
	}
	m.Replaced = cardIDs
	m.UserCards[userID] = cardIDs
	return nil
}

func (m *MockStore) FindUserSavings(_ context.Context, userID string) (*domain.SavingsSummary, error) {
	if m.UserSavingsErr != nil {
		return nil, m.UserSavingsErr
	}
	return m.UserSavings[userID], nil
}

func (m *MockStore) ListSavingsMetrics(context.Context) ([]domain.SavingsMetric, error) {
	if m.MetricsErr != nil {
		return nil, m.MetricsErr
	}
	return m.Metrics, nil
}

func (m *MockStore) CreateCheckout(_ context.Context, rec domain.CheckoutRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateCheckErr != nil {
		return "", m.CreateCheckErr
	}
	rec.Token = m.NextToken
	m.Created = append(m.Created, rec)
	m.Checkouts[rec.Token] = &rec
	return rec.Token, nil
}

func (m *MockStore) FindCheckout(_ context.Context, token string) (*domain.CheckoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindCheckErr != nil {
		return nil, m.FindCheckErr
	}
	return m.Checkouts[token], nil
}

func (m *MockStore) Ping(context.Context) error {
	return m.PingErr
}

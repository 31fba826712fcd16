// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"crediwise/internal/domain"
)

// Table names known to the store.
const (
	TableUsers                   = "users"
	TableCards                   = "cards"
	TableComparisonOffers        = "comparison_offers"
	TableSavingsMetrics          = "savings_metrics"
	TableUserSavings             = "user_savings"
	TableUserCards               = "user_cards"
	TableCheckoutRecommendations = "checkout_recommendations"
)

var knownTables = map[string]struct{}{
	TableUsers:                   {},
	TableCards:                   {},
	TableComparisonOffers:        {},
	TableSavingsMetrics:          {},
	TableUserSavings:             {},
	TableUserCards:               {},
	TableCheckoutRecommendations: {},
}

// KnownTable reports whether name is one of the store's tables.
func KnownTable(name string) bool {
	_, ok := knownTables[name]
	return ok
}

var ErrUnknownTable = errors.New("unknown table")

// Row is one record keyed by column name.
type Row map[string]any

// Filter is an equality predicate on a column.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Query selects rows from a table. Empty Columns selects all columns; a zero
// Limit means no limit.
type Query struct {
	Columns []string
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Error tags a failed store call with the operation and table.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Table is the generic row store every typed operation is built on.
type Table interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
	Ping(ctx context.Context) error
}

// Replacer is implemented by tables that can swap the rows matching filters
// for rows in a single transaction. Either both steps apply or neither does.
type Replacer interface {
	Replace(ctx context.Context, table string, filters []Filter, rows []Row) error
}

type UserStorage interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

type CardStorage interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	ListComparisonOffers(ctx context.Context) ([]domain.ComparisonOffer, error)
	ListUserCardIDs(ctx context.Context, userID string) ([]any, error)
	ReplaceUserCards(ctx context.Context, userID string, cardIDs []any) error
}

type SavingsStorage interface {
	FindUserSavings(ctx context.Context, userID string) (*domain.SavingsSummary, error)
	ListSavingsMetrics(ctx context.Context) ([]domain.SavingsMetric, error)
}

type CheckoutStorage interface {
	CreateCheckout(ctx context.Context, rec domain.CheckoutRecord) (string, error)
	FindCheckout(ctx context.Context, token string) (*domain.CheckoutRecord, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

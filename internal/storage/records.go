// internal/storage/records.go
package storage

import (
	"context"
	"fmt"

	"crediwise/internal/domain"
)

// Records implements the typed storage interfaces on top of a Table.
type Records struct {
	t Table
}

func NewRecords(t Table) *Records {
	return &Records{t: t}
}

var userColumns = []string{"id", "email", "first_name", "last_name"}

func mapUser(row Row) *domain.User {
	return &domain.User{
		ID:        stringValue(row["id"]),
		Email:     stringValue(row["email"]),
		FirstName: stringValue(row["first_name"]),
		LastName:  stringValue(row["last_name"]),
	}
}

func mapCard(row Row) domain.Card {
	card := domain.Card{
		ID:                 stringValue(row["id"]),
		Name:               stringValue(row["name"]),
		Issuer:             stringValue(row["issuer"]),
		Network:            stringValue(row["network"]),
		Rewards:            listValue(row["rewards"]),
		CategoryHighlights: parseHighlights(normalizeValue(row["category_highlights"])),
	}
	if v := row["yearly_rewards"]; v != nil {
		n, _ := intValue(v)
		card.YearlyRewards = &n
	}
	return card
}

func mapComparisonOffer(row Row) domain.ComparisonOffer {
	offer := domain.ComparisonOffer{
		CardName: stringValue(row["card_name"]),
		Offer:    stringValue(row["offer"]),
	}
	if v := row["estimated_savings"]; v != nil {
		f, _ := floatValue(v)
		offer.EstimatedSavings = &f
	}
	return offer
}

func mapSavingsMetric(row Row) domain.SavingsMetric {
	return domain.SavingsMetric{
		Label:  normalizeValue(row["label"]),
		Amount: normalizeValue(row["amount"]),
		Helper: normalizeValue(row["helper"]),
	}
}

func mapUserSavings(row Row) *domain.SavingsSummary {
	total, _ := floatValue(row["total_savings"])
	avg, _ := floatValue(row["average_per_checkout"])
	return &domain.SavingsSummary{
		TotalSavings:       total,
		AveragePerCheckout: avg,
		SavingsOverTime:    orEmptyList(row["savings_over_time"]),
		CategoryBreakdown:  orEmptyList(row["category_breakdown"]),
		CardBreakdown:      orEmptyList(row["card_breakdown"]),
		SmartSuggestions:   orEmptyList(row["smart_suggestions"]),
	}
}

func mapCheckout(row Row) *domain.CheckoutRecord {
	return &domain.CheckoutRecord{
		Token:   stringValue(row["token"]),
		Domain:  stringPtr(row["domain"]),
		URL:     stringPtr(row["url"]),
		Summary: normalizeValue(row["summary"]),
		Payload: normalizeValue(row["payload"]),
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// LegacyTotal sums numeric metric amounts. String amounts are skipped.
func LegacyTotal(metrics []domain.SavingsMetric) float64 {
	var total float64
	for _, m := range metrics {
		if f, ok := numberValue(m.Amount); ok {
			total += f
		}
	}
	return total
}

// === UserStorage ===

func (r *Records) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	rows, err := r.t.Select(ctx, TableUsers, Query{
		Columns: userColumns,
		Filters: []Filter{Eq("email", email)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapUser(rows[0]), nil
}

// CreateUser inserts a user and returns the stored row. If the insert does
// not echo the row back, the user is re-read by email.
func (r *Records) CreateUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	rows, err := r.t.Insert(ctx, TableUsers, Row{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if len(rows) > 0 {
		return mapUser(rows[0]), nil
	}

	user, err := r.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("create user: inserted row for %q not found", email)
	}
	return user, nil
}

func (r *Records) UserExists(ctx context.Context, userID string) (bool, error) {
	rows, err := r.t.Select(ctx, TableUsers, Query{
		Columns: []string{"id"},
		Filters: []Filter{Eq("id", userID)},
		Limit:   1,
	})
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return len(rows) > 0, nil
}

// === CardStorage ===

func (r *Records) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.t.Select(ctx, TableCards, Query{OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	cards := make([]domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, mapCard(row))
	}
	return cards, nil
}

func (r *Records) ListComparisonOffers(ctx context.Context) ([]domain.ComparisonOffer, error) {
	rows, err := r.t.Select(ctx, TableComparisonOffers, Query{})
	if err != nil {
		return nil, fmt.Errorf("list comparison offers: %w", err)
	}
	offers := make([]domain.ComparisonOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, mapComparisonOffer(row))
	}
	return offers, nil
}

func (r *Records) ListUserCardIDs(ctx context.Context, userID string) ([]any, error) {
	rows, err := r.t.Select(ctx, TableUserCards, Query{
		Columns: []string{"card_id"},
		Filters: []Filter{Eq("user_id", userID)},
	})
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, normalizeValue(row["card_id"]))
	}
	return ids, nil
}

// ReplaceUserCards swaps the user's selections for cardIDs. When the table
// supports Replacer the swap is atomic.
func (r *Records) ReplaceUserCards(ctx context.Context, userID string, cardIDs []any) error {
	rows := make([]Row, 0, len(cardIDs))
	for _, id := range cardIDs {
		rows = append(rows, Row{"user_id": userID, "card_id": id})
	}

	if rp, ok := r.t.(Replacer); ok {
		if err := rp.Replace(ctx, TableUserCards, []Filter{Eq("user_id", userID)}, rows); err != nil {
			return fmt.Errorf("replace user cards: %w", err)
		}
		return nil
	}

	if err := r.t.Delete(ctx, TableUserCards, Eq("user_id", userID)); err != nil {
		return fmt.Errorf("clear user cards: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := r.t.Insert(ctx, TableUserCards, rows...); err != nil {
		return fmt.Errorf("save user cards: %w", err)
	}
	return nil
}

// === SavingsStorage ===

func (r *Records) FindUserSavings(ctx context.Context, userID string) (*domain.SavingsSummary, error) {
	rows, err := r.t.Select(ctx, TableUserSavings, Query{
		Filters: []Filter{Eq("user_id", userID)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find user savings: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapUserSavings(rows[0]), nil
}

func (r *Records) ListSavingsMetrics(ctx context.Context) ([]domain.SavingsMetric, error) {
	rows, err := r.t.Select(ctx, TableSavingsMetrics, Query{})
	if err != nil {
		return nil, fmt.Errorf("list savings metrics: %w", err)
	}
	metrics := make([]domain.SavingsMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, mapSavingsMetric(row))
	}
	return metrics, nil
}

// === CheckoutStorage ===

// CreateCheckout stores rec and returns its generated token.
func (r *Records) CreateCheckout(ctx context.Context, rec domain.CheckoutRecord) (string, error) {
	rows, err := r.t.Insert(ctx, TableCheckoutRecommendations, Row{
		"domain":  nullable(rec.Domain),
		"url":     nullable(rec.URL),
		"summary": rec.Summary,
		"payload": rec.Payload,
	})
	if err != nil {
		return "", fmt.Errorf("insert checkout: %w", err)
	}
	if len(rows) > 0 {
		if token := stringValue(rows[0]["token"]); token != "" {
			return token, nil
		}
	}

	latest, err := r.t.Select(ctx, TableCheckoutRecommendations, Query{
		Columns: []string{"token"},
		OrderBy: "created_at",
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		return "", fmt.Errorf("fetch checkout token: %w", err)
	}
	if len(latest) == 0 {
		return "", fmt.Errorf("fetch checkout token: no rows")
	}
	token := stringValue(latest[0]["token"])
	if token == "" {
		return "", fmt.Errorf("fetch checkout token: empty token")
	}
	return token, nil
}

func (r *Records) FindCheckout(ctx context.Context, token string) (*domain.CheckoutRecord, error) {
	rows, err := r.t.Select(ctx, TableCheckoutRecommendations, Query{
		Filters: []Filter{Eq("token", token)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find checkout: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapCheckout(rows[0]), nil
}

func (r *Records) Ping(ctx context.Context) error {
	return r.t.Ping(ctx)
}

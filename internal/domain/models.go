// internal/domain/models.go
package domain

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Highlight is one "label: value" line shown on a card tile.
type Highlight struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Card struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Issuer             string      `json:"issuer"`
	Network            string      `json:"network"`
	Rewards            []any       `json:"rewards"`
	YearlyRewards      *int64      `json:"yearlyRewards"`
	CategoryHighlights []Highlight `json:"categoryHighlights"`
}

type ComparisonOffer struct {
	CardName         string   `json:"cardName"`
	Offer            string   `json:"offer"`
	EstimatedSavings *float64 `json:"estimatedSavings"`
}

// SavingsMetric is a row of the legacy global savings table. Amount is kept
// as stored: it may be a number or a preformatted string.
type SavingsMetric struct {
	Label  any `json:"label"`
	Amount any `json:"amount"`
	Helper any `json:"helper"`
}

// SavingsSummary is the /savings response.
type SavingsSummary struct {
	TotalSavings       float64 `json:"totalSavings"`
	AveragePerCheckout float64 `json:"averagePerCheckout"`
	SavingsOverTime    any     `json:"savingsOverTime"`
	CategoryBreakdown  any     `json:"categoryBreakdown"`
	CardBreakdown      any     `json:"cardBreakdown"`
	SmartSuggestions   any     `json:"smartSuggestions"`
}

// EmptySavings is returned when no aggregate can be read.
func EmptySavings() SavingsSummary {
	return SavingsSummary{
		SavingsOverTime:   []any{},
		CategoryBreakdown: []any{},
		CardBreakdown:     []any{},
		SmartSuggestions:  []any{},
	}
}

// CheckoutRecord is a stored checkout recommendation. Summary and Payload
// are JSON documents.
type CheckoutRecord struct {
	Token   string  `json:"token"`
	Domain  *string `json:"domain"`
	URL     *string `json:"url"`
	Summary any     `json:"summary"`
	Payload any     `json:"payload"`
}

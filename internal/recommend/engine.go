// internal/recommend/engine.go
package recommend

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDomain is used when a checkout arrives without a domain.
const DefaultDomain = "amazon.com"

// BestCard is the curated card for a checkout.
type BestCard struct {
	Name          string  `json:"name"`
	Rewards       float64 `json:"rewards"`
	NetBenefit    float64 `json:"net_benefit"`
	RatePercent   string  `json:"rate_percent"`
	CheckoutTotal float64 `json:"checkout_total"`
	Category      string  `json:"category"`
}

// OtherCard is any non-best card, ranked in declared order.
type OtherCard struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Rewards     float64 `json:"rewards"`
	NetBenefit  float64 `json:"net_benefit"`
	RatePercent string  `json:"rate_percent"`
	LossVsBest  float64 `json:"loss_vs_best"`
}

type Summary struct {
	BestCardSavings     float64 `json:"best_card_savings"`
	DifferenceBestWorst float64 `json:"difference_best_worst"`
}

// Recommendation is computed per request and never persisted as a typed value.
type Recommendation struct {
	Website    string      `json:"website"`
	Amount     float64     `json:"amount"`
	Category   string      `json:"category"`
	BestCard   BestCard    `json:"best_card"`
	OtherCards []OtherCard `json:"other_cards"`
	Summary    Summary     `json:"summary"`
}

// Engine scores checkouts against a fixed merchant table. It is safe for
// concurrent use.
type Engine struct {
	table *Table
}

func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Merchants lists the merchants the engine knows about.
func (e *Engine) Merchants() []Merchant {
	return e.table.Merchants()
}

// Compute builds the recommendation for domain. A nil amount uses the
// merchant's default amount. Unknown domains fall back to the first merchant.
func (e *Engine) Compute(domain string, amount *float64) Recommendation {
	if strings.TrimSpace(domain) == "" {
		domain = DefaultDomain
	}
	m := e.table.Lookup(domain)

	total := m.DefaultAmount
	if amount != nil && !math.IsNaN(*amount) && !math.IsInf(*amount, 0) {
		total = *amount
	}

	type scored struct {
		rule    CardRule
		rewards decimal.Decimal
	}
	cards := make([]scored, len(m.Cards))
	for i, c := range m.Cards {
		cards[i] = scored{rule: c, rewards: cents(total * c.Rate)}
	}

	best := cards[m.BestIndex]
	rec := Recommendation{
		Website:  m.Website,
		Amount:   total,
		Category: m.Category,
		BestCard: BestCard{
			Name:          best.rule.Name,
			Rewards:       best.rewards.InexactFloat64(),
			NetBenefit:    best.rewards.InexactFloat64(),
			RatePercent:   ratePercent(best.rule.Rate),
			CheckoutTotal: total,
			Category:      m.Category,
		},
		OtherCards: make([]OtherCard, 0, len(cards)-1),
	}

	worst := best.rewards
	for i, c := range cards {
		if i == m.BestIndex {
			continue
		}
		rec.OtherCards = append(rec.OtherCards, OtherCard{
			Rank:        len(rec.OtherCards) + 1,
			Name:        c.rule.Name,
			Rewards:     c.rewards.InexactFloat64(),
			NetBenefit:  c.rewards.InexactFloat64(),
			RatePercent: ratePercent(c.rule.Rate),
			LossVsBest:  best.rewards.Sub(c.rewards).InexactFloat64(),
		})
		if len(rec.OtherCards) == 1 || c.rewards.LessThan(worst) {
			worst = c.rewards
		}
	}

	rec.Summary = Summary{
		BestCardSavings:     best.rewards.InexactFloat64(),
		DifferenceBestWorst: best.rewards.Sub(worst).InexactFloat64(),
	}
	return rec
}

// ParseAmount coerces a decoded JSON value into a purchase amount. It reports
// false for anything that is not a finite number, so callers use the default.
func ParseAmount(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cents rounds the float product to two places the way it is printed:
// exact binary value, ties to even. 0.125 becomes 0.12, 100.5*0.03 becomes 3.01.
func cents(x float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(x, 'f', 2, 64))
}

func ratePercent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

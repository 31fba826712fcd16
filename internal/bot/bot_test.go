package bot

import (
	"testing"

	"crediwise/internal/recommend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func newBot() *Bot {
	return New(recommend.NewEngine(recommend.MustDefaultTable()))
}

func TestReply_Recommend(t *testing.T) {
	got := newBot().Reply("/recommend amazon.com 100")

	assert.Equal(t, "💳 *Blue Cash Everyday®* looks best for amazon.com\n"+
		"Amazon · Online Retail · $100.00\n"+
		"Rewards: $3.00 (3.0%)\n"+
		"\n"+
		"Other cards:\n"+
		"1. Citi Double Cash®: $2.00 (2.0%), -$1.00 vs best\n"+
		"2. Chase Freedom Unlimited®: $1.50 (1.5%), -$1.50 vs best", got)
}

func TestReply_RecommendDefaultsAmount(t *testing.T) {
	got := newBot().Reply("/recommend@crediwise_bot ORDER.DOMINOS.COM")

	assert.Contains(t, got, "*Chase Freedom Unlimited®* looks best for ORDER.DOMINOS.COM")
	assert.Contains(t, got, "Domino's · Dining & Takeout · $8.99")
	assert.Contains(t, got, "Rewards: $0.27 (3.0%)")
}

func TestReply_Errors(t *testing.T) {
	b := newBot()
	tests := map[string]string{
		"":                           "Unknown command. Send /help",
		"hello":                      "Unknown command. Send /help",
		"/recommend":                 "❌ Usage: /recommend <domain> [amount]",
		"/recommend a.com 1 2":       "❌ Usage: /recommend <domain> [amount]",
		"/recommend amazon.com lots": "❌ Amount must be a positive number",
		"/recommend amazon.com -5":   "❌ Amount must be a positive number",
	}
	for in, want := range tests {
		assert.Equal(t, want, b.Reply(in), in)
	}
}

func TestReply_HelpAndMerchants(t *testing.T) {
	b := newBot()
	assert.Equal(t, helpText, b.Reply("/start"))
	assert.Equal(t, helpText, b.Reply("/HELP"))

	got := b.Reply("/merchants")
	assert.Contains(t, got, "• Amazon (Online Retail): amazon.com, www.amazon.com")
	assert.Contains(t, got, "• Wayfair (Home Goods & Furniture): wayfair.com, www.wayfair.com")
}

func TestHandleUpdate(t *testing.T) {
	b := newBot()

	_, ok := b.HandleUpdate(tgbotapi.Update{})
	assert.False(t, ok)

	msg, ok := b.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 77},
		Text: "/recommend wayfair.com   $200",
	}})
	require.True(t, ok)
	assert.Equal(t, int64(77), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "*Citi Double Cash®* looks best for wayfair.com")
	assert.Contains(t, msg.Text, "Rewards: $4.00 (2.0%)")
}

func TestFixEncoding(t *testing.T) {
	assert.Equal(t, "/recommend amazon.com", fixEncoding("/recommend amazon.com"))

	cp1251, err := charmap.Windows1251.NewEncoder().String("Привет")
	require.NoError(t, err)
	assert.Equal(t, "Привет", fixEncoding(cp1251))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "/recommend amazon.com 5", sanitizeInput(" /recommend\t amazon.com  5 \n"))
}

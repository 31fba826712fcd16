// internal/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"crediwise/internal/metrics"
	"crediwise/internal/recommend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"
)

const helpText = "💳 *Crediwise*\n\n" +
	"Commands:\n" +
	"`/recommend amazon.com 120` - best card for a merchant and amount\n" +
	"`/merchants` - merchants with curated recommendations\n" +
	"`/help` - this message"

// Bot answers chat commands from the recommendation engine. It keeps no
// per-chat state.
type Bot struct {
	engine *recommend.Engine
}

func New(engine *recommend.Engine) *Bot {
	return &Bot{engine: engine}
}

// Run long-polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg, ok := b.HandleUpdate(update)
			if !ok {
				continue
			}
			if _, err := api.Send(msg); err != nil {
				slog.Error("Failed to send reply", "error", err, "chat_id", msg.ChatID)
			}
		}
	}
}

// HandleUpdate builds the reply for update. It reports false for updates
// that carry no text message.
func (b *Bot) HandleUpdate(update tgbotapi.Update) (tgbotapi.MessageConfig, bool) {
	if update.Message == nil || update.Message.Chat == nil {
		return tgbotapi.MessageConfig{}, false
	}

	text := sanitizeInput(fixEncoding(update.Message.Text))
	slog.Info("Message received", "chat_id", update.Message.Chat.ID, "text", text)

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, b.Reply(text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg, true
}

// Reply maps one command line to its Markdown answer.
func (b *Bot) Reply(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "Unknown command. Send /help"
	}

	switch command(fields[0]) {
	case "/start", "/help":
		return helpText
	case "/merchants":
		return b.merchants()
	case "/recommend":
		return b.recommend(fields[1:])
	default:
		return "Unknown command. Send /help"
	}
}

// command strips the "@botname" suffix Telegram adds in group chats.
func command(s string) string {
	if i := strings.IndexByte(s, '@'); i > 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

func (b *Bot) merchants() string {
	lines := []string{"🛒 *Merchants*"}
	for _, m := range b.engine.Merchants() {
		lines = append(lines, fmt.Sprintf("• %s (%s): %s",
			escape(m.Website), escape(m.Category), escape(strings.Join(m.Domains, ", "))))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) recommend(args []string) string {
	if len(args) == 0 || len(args) > 2 {
		return "❌ Usage: /recommend <domain> [amount]"
	}

	var amount *float64
	if len(args) == 2 {
		v, ok := recommend.ParseAmount(strings.TrimPrefix(args[1], "$"))
		if !ok || v < 0 {
			return "❌ Amount must be a positive number"
		}
		amount = &v
	}

	rec := b.engine.Compute(args[0], amount)
	metrics.RecordRecommendation(rec.Website)

	lines := []string{
		fmt.Sprintf("💳 *%s* looks best for %s", escape(rec.BestCard.Name), escape(args[0])),
		fmt.Sprintf("%s · %s · $%.2f", escape(rec.Website), escape(rec.Category), rec.Amount),
		fmt.Sprintf("Rewards: $%.2f (%s)", rec.BestCard.NetBenefit, rec.BestCard.RatePercent),
	}
	if len(rec.OtherCards) > 0 {
		lines = append(lines, "", "Other cards:")
		for _, c := range rec.OtherCards {
			lines = append(lines, fmt.Sprintf("%d. %s: $%.2f (%s), %s vs best",
				c.Rank, escape(c.Name), c.NetBenefit, c.RatePercent, signedDollars(-c.LossVsBest)))
		}
	}
	return strings.Join(lines, "\n")
}

func signedDollars(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// sanitizeInput folds every run of whitespace, including non-breaking
// spaces from mobile keyboards, into a single space.
func sanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fixEncoding repairs text that arrived as Windows-1251 bytes.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}

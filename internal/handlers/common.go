package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
)

// commandTimeout bounds the storage work of a single command or button press
const commandTimeout = 15 * time.Second

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// esc escapes user-provided text for Markdown messages
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// reply sends a Markdown message to chatID
func reply(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// usage sends a usage hint
func usage(bot telegram.Sender, chatID int64, text string) error {
	return reply(bot, chatID, "❌ "+text)
}

// userMessage turns an error into a plain text reply for the user. ok is
// false for errors the user cannot act on.
func userMessage(err error) (string, bool) {
	var (
		verr *models.ValidationError
		nerr *models.NotFoundError
		derr *models.DuplicateNameError
	)
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("❌ Invalid %s: %s", verr.Field, verr.Reason), true
	case errors.As(err, &nerr):
		return fmt.Sprintf("❌ No %s named %q", nerr.Kind, nerr.Key), true
	case errors.As(err, &derr):
		return fmt.Sprintf("❌ A list named %q already exists", derr.Name), true
	case models.IsStorageUnavailable(err):
		return "⚠️ Storage is unavailable right now. Please try again in a moment.", true
	case errors.Is(err, wizard.ErrNoPick):
		return "🤷 Nothing was picked this time.", true
	case errors.Is(err, wizard.ErrInvalidTransition):
		return "↩️ That button is out of date. Use /pick to start again.", true
	default:
		return "", false
	}
}

// replyError answers with a readable message for known errors and returns
// unknown errors so the router logs them
func replyError(bot telegram.Sender, chatID int64, err error) error {
	text, ok := userMessage(err)
	if !ok {
		return err
	}
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// splitPipe splits "a b | c d" into trimmed parts
func splitPipe(args []string) []string {
	parts := strings.Split(strings.Join(args, " "), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

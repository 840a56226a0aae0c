package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
)

// SettingsHandler shows and changes the scenario thresholds.
type SettingsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *service.Service, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, logger: logger}
}

func renderSettings(s models.Settings) string {
	return fmt.Sprintf("⚙️ *Settings*\n\n🥗 Healthy: at most %d kcal\n💰 Budget: at most %d\n⚡ Quick: %d minutes or less\n\nChange one with `/settings calories 600`",
		s.CalorieLimit, s.PriceLimit, s.TimeLimitMinutes)
}

// parseSettingsUpdate reads "<calories|price|time> <value>"
func parseSettingsUpdate(args []string) (models.SettingsUpdate, error) {
	var update models.SettingsUpdate
	if len(args) != 2 {
		return update, models.NewValidationError("settings", "expected a setting name and a value")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		return update, models.NewValidationError(args[0], "must be a positive whole number")
	}
	switch strings.ToLower(args[0]) {
	case "calories", "kcal", "calorie":
		update.CalorieLimit = &n
	case "price", "budget":
		update.PriceLimit = &n
	case "time", "minutes", "quick":
		update.TimeLimitMinutes = &n
	default:
		return update, models.NewValidationError("settings", fmt.Sprintf("unknown setting %q", args[0]))
	}
	return update, nil
}

// Handle processes the /settings command.
func (h *SettingsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, renderSettings(h.svc.Preferences.Settings()))
	}

	ctx, cancel := commandContext()
	defer cancel()

	if len(args) == 1 && strings.EqualFold(args[0], "reset") {
		if err := h.svc.Preferences.ResetSettings(ctx); err != nil {
			return replyError(bot, message.Chat.ID, err)
		}
		return reply(bot, message.Chat.ID, "♻️ Settings restored.\n\n"+renderSettings(h.svc.Preferences.Settings()))
	}

	update, err := parseSettingsUpdate(args)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	settings, err := h.svc.Preferences.UpdateSettings(ctx, update)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Settings changed from chat")
	return reply(bot, message.Chat.ID, "✅ Saved.\n\n"+renderSettings(settings))
}

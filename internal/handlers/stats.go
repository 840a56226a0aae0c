package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
)

// StatsHandler summarizes the catalog and preferences.
type StatsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.Service, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

// Handle processes the /stats command.
func (h *StatsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	groups, err := h.svc.Catalog.Grouped(ctx)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	stats := h.svc.Preferences.Stats()

	var sb strings.Builder
	sb.WriteString("📊 *Stats*\n\n")
	total := 0
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("%s: %d\n", esc(g.Label), len(g.Foods)))
		total += len(g.Foods)
	}
	sb.WriteString(fmt.Sprintf("*Foods:* %d\n\n", total))
	sb.WriteString(fmt.Sprintf("❤️ Favorites: %d\n🚫 Blacklisted: %d\n📝 Custom lists: %d\n",
		stats.FavoritesCount, stats.BlacklistCount, stats.CustomListsCount))
	sb.WriteString(fmt.Sprintf("⚙️ Limits: %d kcal · %d · %d min",
		stats.Settings.CalorieLimit, stats.Settings.PriceLimit, stats.Settings.TimeLimitMinutes))

	return reply(bot, message.Chat.ID, sb.String())
}

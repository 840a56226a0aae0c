package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
)

// FoodsPrefix routes the catalog reset confirmation buttons
const FoodsPrefix = "foods"

// ---------------------------------------------------------------------------
// FoodsHandler – /foods
// ---------------------------------------------------------------------------

// FoodsHandler lists the catalog grouped by category.
type FoodsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewFoodsHandler creates a new FoodsHandler.
func NewFoodsHandler(svc *service.Service, logger *logrus.Logger) *FoodsHandler {
	return &FoodsHandler{svc: svc, logger: logger}
}

// Handle processes the /foods command. An optional argument narrows the
// list to one category.
func (h *FoodsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	groups, err := h.svc.Catalog.Grouped(ctx)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	if len(args) > 0 {
		want := models.Category(strings.ToLower(args[0]))
		if !want.Valid() {
			return replyError(bot, message.Chat.ID, models.NewValidationError("category", fmt.Sprintf("unknown category %q", args[0])))
		}
		var kept []service.CategoryGroup
		for _, g := range groups {
			if g.Category == want {
				kept = append(kept, g)
			}
		}
		groups = kept
	}

	if len(groups) == 0 {
		return reply(bot, message.Chat.ID, "📋 *The catalog is empty!*\n\nAdd a food with `/addfood` or restore the defaults with /resetfoods")
	}

	if err := reply(bot, message.Chat.ID, renderCatalog(groups, h.svc.Preferences.Snapshot())); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"categories": len(groups),
	}).Info("Listed catalog")
	return nil
}

// renderCatalog formats grouped foods, marking favorites and blacklisted names
func renderCatalog(groups []service.CategoryGroup, prefs *models.PreferenceSnapshot) string {
	var sb strings.Builder
	sb.WriteString("📋 *Food catalog*\n")
	total := 0
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", esc(g.Label)))
		for _, f := range g.Foods {
			marks := ""
			if prefs.Favorites.Has(f.Name) {
				marks += " ❤️"
			}
			if prefs.Blacklist.Has(f.Name) {
				marks += " 🚫"
			}
			sb.WriteString(fmt.Sprintf("`#%d` %s%s · %.0f kcal · %d · %d min\n",
				f.ID, esc(f.Name), marks, f.Calories, f.Price, f.PrepTimeMinutes))
			total++
		}
	}
	sb.WriteString(fmt.Sprintf("\n_%d foods_", total))
	return sb.String()
}

// ---------------------------------------------------------------------------
// AddFoodHandler – /addfood <category> <name> [| kcal price minutes]
// ---------------------------------------------------------------------------

// AddFoodHandler handles the /addfood command.
type AddFoodHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddFoodHandler creates a new AddFoodHandler.
func NewAddFoodHandler(svc *service.Service, logger *logrus.Logger) *AddFoodHandler {
	return &AddFoodHandler{svc: svc, logger: logger}
}

var errAddFoodUsage = errors.New("usage: /addfood <category> <name> [| kcal price minutes]")

// parseAddFood reads "<category> <name> [| kcal price minutes]"
func parseAddFood(args []string) (models.Food, error) {
	if len(args) < 2 {
		return models.Food{}, errAddFoodUsage
	}
	food := models.Food{Category: models.Category(strings.ToLower(args[0]))}

	parts := splitPipe(args[1:])
	food.Name = parts[0]
	if len(parts) > 2 {
		return models.Food{}, errAddFoodUsage
	}
	if len(parts) == 2 {
		nums := strings.Fields(parts[1])
		if len(nums) > 3 {
			return models.Food{}, errAddFoodUsage
		}
		for i, raw := range nums {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return models.Food{}, models.NewValidationError([]string{"calories", "price", "prep_time_minutes"}[i], "must be a whole number")
			}
			switch i {
			case 0:
				food.Calories = float64(n)
			case 1:
				food.Price = n
			case 2:
				food.PrepTimeMinutes = n
			}
		}
	}
	return food, nil
}

// Handle processes the /addfood command.
func (h *AddFoodHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	food, err := parseAddFood(args)
	if errors.Is(err, errAddFoodUsage) {
		return usage(bot, message.Chat.ID, "Please provide a category and a name.\nUsage: `/addfood meal-rice Curry Rice | 750 110 20`")
	}
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	id, err := h.svc.Catalog.Insert(ctx, food)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"food_id": id,
	}).Info("Food created")

	return reply(bot, message.Chat.ID, fmt.Sprintf("✅ *Food added!*\n\n`#%d` %s (%s)", id, esc(strings.TrimSpace(food.Name)), esc(food.Category.Label())))
}

// ---------------------------------------------------------------------------
// DelFoodHandler – /delfood <id>
// ---------------------------------------------------------------------------

// DelFoodHandler handles the /delfood command.
type DelFoodHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDelFoodHandler creates a new DelFoodHandler.
func NewDelFoodHandler(svc *service.Service, logger *logrus.Logger) *DelFoodHandler {
	return &DelFoodHandler{svc: svc, logger: logger}
}

// Handle processes the /delfood command.
func (h *DelFoodHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return usage(bot, message.Chat.ID, "Please provide a food ID.\nUsage: `/delfood 5`")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return usage(bot, message.Chat.ID, "Invalid ID. Please provide a numeric food ID.")
	}

	ctx, cancel := commandContext()
	defer cancel()

	food, err := h.svc.Catalog.Get(ctx, id)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	if food == nil {
		return reply(bot, message.Chat.ID, fmt.Sprintf("🤷 There is no food `#%d`.", id))
	}
	if err := h.svc.Catalog.Delete(ctx, id); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"food_id": id,
	}).Info("Food deleted")

	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 Deleted `#%d` %s", id, esc(food.Name)))
}

// ---------------------------------------------------------------------------
// ResetFoodsHandler – /resetfoods
// ---------------------------------------------------------------------------

// ResetFoodsHandler asks for confirmation and then restores the default catalog.
type ResetFoodsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewResetFoodsHandler creates a new ResetFoodsHandler.
func NewResetFoodsHandler(svc *service.Service, logger *logrus.Logger) *ResetFoodsHandler {
	return &ResetFoodsHandler{svc: svc, logger: logger}
}

func resetConfirmation() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⚠️ Yes, reset", FoodsPrefix+":reset:yes"),
		tgbotapi.NewInlineKeyboardButtonData("Cancel", FoodsPrefix+":reset:no"),
	))
}

// Handle processes the /resetfoods command.
func (h *ResetFoodsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID,
		"⚠️ *Reset the catalog?*\n\nEvery food will be replaced by the default catalog. Favorites, blacklist and lists are kept.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = resetConfirmation()
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

// HandleCallback processes the confirmation buttons.
func (h *ResetFoodsHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch data {
	case "reset:no":
		bot.Request(tgbotapi.NewCallback(query.ID, "Cancelled"))
		_, err := bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, "👍 Catalog left unchanged."))
		return err

	case "reset:yes":
		ctx, cancel := commandContext()
		defer cancel()

		if err := h.svc.Catalog.ReinitializeWithDefaults(ctx, true); err != nil {
			text, ok := userMessage(err)
			if !ok {
				return err
			}
			bot.Request(tgbotapi.NewCallback(query.ID, text))
			_, err := bot.Send(tgbotapi.NewEditMessageText(chatID, messageID,
				text+"\nThe catalog may be empty now. Run /resetfoods again to retry."))
			return err
		}

		h.logger.WithField("chat_id", chatID).Info("Catalog reset to defaults")
		bot.Request(tgbotapi.NewCallback(query.ID, "Catalog reset"))
		_, err := bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, "✅ Catalog restored to the defaults."))
		return err

	default:
		bot.Request(tgbotapi.NewCallback(query.ID, ""))
		return nil
	}
}

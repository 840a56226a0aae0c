package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

const helpText = `📚 *FoodPickerBot Help*

*Picking:*
• /pick - Start the picker wizard

*Catalog:*
• /foods - Show the catalog by category
• /addfood <category> <name> [| kcal price minutes] - Add a food
• /delfood <id> - Delete a food
• /resetfoods - Restore the default catalog

*Preferences:*
• /fav <name> - Add to favorites
• /unfav <name> - Remove from favorites
• /block <name> - Never pick this food
• /unblock <name> - Allow it again

*Custom lists:*
• /lists - Show your lists
• /newlist <list> [| food, food] - Create a list
• /listadd <list> | <food> - Add a food to a list
• /listdel <list> | <food> - Remove a food from a list
• /droplist <list> - Delete a list

*Settings:*
• /settings - Show thresholds
• /settings calories|price|time <value> - Change a threshold
• /settings reset - Restore defaults
• /stats - Catalog and preference summary

_Categories: meal-rice, meal-noodle, meal-other, snack-sweet, snack-salty, snack-drink_`

// BotCommands is the command menu published to Telegram clients
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "pick", Description: "Pick something to eat"},
		{Command: "foods", Description: "Show the catalog"},
		{Command: "addfood", Description: "Add a food"},
		{Command: "delfood", Description: "Delete a food"},
		{Command: "fav", Description: "Add a favorite"},
		{Command: "block", Description: "Blacklist a food"},
		{Command: "lists", Description: "Show custom lists"},
		{Command: "settings", Description: "Show or change thresholds"},
		{Command: "stats", Description: "Show a summary"},
		{Command: "help", Description: "Show help"},
	}
}

func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if err := reply(bot, message.Chat.ID, helpText); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
	}).Info("Sent help message")

	return nil
}

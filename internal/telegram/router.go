package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the bot API handlers use. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles inline keyboard presses whose data starts with the
// registered prefix. data is the remainder after "prefix:".
type CallbackHandler interface {
	HandleCallback(bot Sender, query *tgbotapi.CallbackQuery, data string) error
}

// Router handles message routing and command parsing
type Router struct {
	logger        *logrus.Logger
	handlers      map[string]CommandHandler
	callbacks     map[string]CallbackHandler
	allowedChatID int64
}

// NewRouter creates a new message router. A non-zero allowedChatID limits
// the bot to that chat.
func NewRouter(logger *logrus.Logger, allowedChatID int64) *Router {
	return &Router{
		logger:        logger,
		handlers:      make(map[string]CommandHandler),
		callbacks:     make(map[string]CallbackHandler),
		allowedChatID: allowedChatID,
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a callback handler for a data prefix
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
	r.logger.Debugf("Registered callback prefix: %s", prefix)
}

func (r *Router) allowed(chatID int64) bool {
	return r.allowedChatID == 0 || chatID == r.allowedChatID
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot Sender, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	fields := logrus.Fields{
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
		"text":       message.Text,
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	r.logger.WithFields(fields).Info("Received message")

	// Only process text commands
	if message.Text == "" || !message.IsCommand() {
		return
	}

	if !r.allowed(message.Chat.ID) {
		r.logger.WithField("chat_id", message.Chat.ID).Warn("Ignoring command from chat that is not allowed")
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "🔒 This bot is private."))
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
		}).Warn("Unknown command")

		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands."))
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"error":   err,
		}).Error("Command handler failed")

		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "❌ An error occurred while processing your command. Please try again."))
	}
}

// HandleCallbackQuery routes inline keyboard presses by data prefix
func (r *Router) HandleCallbackQuery(bot Sender, query *tgbotapi.CallbackQuery) {
	fields := logrus.Fields{
		"callback_id": query.ID,
		"data":        query.Data,
	}
	if query.From != nil {
		fields["user_id"] = query.From.ID
	}
	r.logger.WithFields(fields).Info("Received callback query")

	message := query.Message
	if message == nil || message.Chat == nil || !r.allowed(message.Chat.ID) {
		bot.Request(tgbotapi.NewCallback(query.ID, "🔒 This bot is private."))
		return
	}

	prefix, data, _ := strings.Cut(query.Data, ":")
	handler, exists := r.callbacks[prefix]
	if !exists {
		r.logger.WithField("data", query.Data).Warn("Unknown callback prefix")
		bot.Request(tgbotapi.NewCallback(query.ID, ""))
		return
	}

	if err := handler.HandleCallback(bot, query, data); err != nil {
		r.logger.WithFields(logrus.Fields{
			"data":    query.Data,
			"chat_id": message.Chat.ID,
			"error":   err,
		}).Error("Callback handler failed")

		bot.Request(tgbotapi.NewCallback(query.ID, "❌ Something went wrong. Please try again."))
	}
}

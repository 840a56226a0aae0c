package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
)

// ---------------------------------------------------------------------------
// NameHandler – /fav, /unfav, /block, /unblock
// ---------------------------------------------------------------------------

// NameHandler applies one preference change to the food name given as argument.
type NameHandler struct {
	command string
	apply   func(ctx context.Context, name string) error
	done    string
	logger  *logrus.Logger
}

// NewFavHandler handles /fav <name>
func NewFavHandler(svc *service.Service, logger *logrus.Logger) *NameHandler {
	return &NameHandler{command: "fav", apply: svc.Preferences.AddFavorite, done: "❤️ %s added to favorites", logger: logger}
}

// NewUnfavHandler handles /unfav <name>
func NewUnfavHandler(svc *service.Service, logger *logrus.Logger) *NameHandler {
	return &NameHandler{command: "unfav", apply: svc.Preferences.RemoveFavorite, done: "💔 %s removed from favorites", logger: logger}
}

// NewBlockHandler handles /block <name>
func NewBlockHandler(svc *service.Service, logger *logrus.Logger) *NameHandler {
	return &NameHandler{command: "block", apply: svc.Preferences.AddToBlacklist, done: "🚫 %s will never be picked", logger: logger}
}

// NewUnblockHandler handles /unblock <name>
func NewUnblockHandler(svc *service.Service, logger *logrus.Logger) *NameHandler {
	return &NameHandler{command: "unblock", apply: svc.Preferences.RemoveFromBlacklist, done: "✅ %s can be picked again", logger: logger}
}

// Handle processes the command.
func (h *NameHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return usage(bot, message.Chat.ID, fmt.Sprintf("Please provide a food name.\nUsage: `/%s Ramen`", h.command))
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := h.apply(ctx, name); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"command": h.command,
		"name":    name,
	}).Info("Preference updated")

	return reply(bot, message.Chat.ID, fmt.Sprintf(h.done, "*"+esc(name)+"*"))
}

// ---------------------------------------------------------------------------
// ListsHandler – /lists
// ---------------------------------------------------------------------------

// ListsHandler shows favorites, blacklist and every custom list.
type ListsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewListsHandler creates a new ListsHandler.
func NewListsHandler(svc *service.Service, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{svc: svc, logger: logger}
}

// Handle processes the /lists command.
func (h *ListsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	snap := h.svc.Preferences.Snapshot()

	var sb strings.Builder
	sb.WriteString("❤️ *Favorites:* ")
	sb.WriteString(joinNames(snap.Favorites.Sorted()))
	sb.WriteString("\n🚫 *Blacklist:* ")
	sb.WriteString(joinNames(snap.Blacklist.Sorted()))
	sb.WriteString("\n\n📝 *Custom lists*\n")

	names := h.svc.Preferences.CustomListNames()
	if len(names) == 0 {
		sb.WriteString("_none yet, create one with /newlist_\n")
	}
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("• *%s*: %s\n", esc(name), joinNames(snap.CustomLists[name])))
	}

	return reply(bot, message.Chat.ID, sb.String())
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "_empty_"
	}
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = esc(n)
	}
	return strings.Join(escaped, ", ")
}

// ---------------------------------------------------------------------------
// NewListHandler – /newlist <list> [| food, food]
// ---------------------------------------------------------------------------

// NewListHandler creates a custom list.
type NewListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewNewListHandler creates a new NewListHandler.
func NewNewListHandler(svc *service.Service, logger *logrus.Logger) *NewListHandler {
	return &NewListHandler{svc: svc, logger: logger}
}

// Handle processes the /newlist command.
func (h *NewListHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	parts := splitPipe(args)
	if parts[0] == "" {
		return usage(bot, message.Chat.ID, "Please provide a list name.\nUsage: `/newlist Lunch | Ramen, Sushi`")
	}
	var items []string
	if len(parts) > 1 {
		items = strings.Split(strings.Join(parts[1:], "|"), ",")
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := h.svc.Preferences.CreateCustomList(ctx, parts[0], items); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, fmt.Sprintf("📝 List *%s* created.", esc(parts[0])))
}

// ---------------------------------------------------------------------------
// ListItemHandler – /listadd and /listdel <list> | <food>
// ---------------------------------------------------------------------------

// ListItemHandler adds a food to a custom list or removes it.
type ListItemHandler struct {
	command string
	apply   func(ctx context.Context, list, food string) error
	done    string
	logger  *logrus.Logger
}

// NewListAddHandler handles /listadd <list> | <food>
func NewListAddHandler(svc *service.Service, logger *logrus.Logger) *ListItemHandler {
	return &ListItemHandler{command: "listadd", apply: svc.Preferences.AddToCustomList, done: "➕ %s added to %s", logger: logger}
}

// NewListDelHandler handles /listdel <list> | <food>
func NewListDelHandler(svc *service.Service, logger *logrus.Logger) *ListItemHandler {
	return &ListItemHandler{command: "listdel", apply: svc.Preferences.RemoveFromCustomList, done: "➖ %s removed from %s", logger: logger}
}

// Handle processes the command.
func (h *ListItemHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	parts := splitPipe(args)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return usage(bot, message.Chat.ID, fmt.Sprintf("Please provide a list and a food.\nUsage: `/%s Lunch | Ramen`", h.command))
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := h.apply(ctx, parts[0], parts[1]); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"command": h.command,
		"list":    parts[0],
	}).Info("Custom list updated")

	return reply(bot, message.Chat.ID, fmt.Sprintf(h.done, "*"+esc(parts[1])+"*", "*"+esc(parts[0])+"*"))
}

// ---------------------------------------------------------------------------
// DropListHandler – /droplist <list>
// ---------------------------------------------------------------------------

// DropListHandler deletes a custom list.
type DropListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDropListHandler creates a new DropListHandler.
func NewDropListHandler(svc *service.Service, logger *logrus.Logger) *DropListHandler {
	return &DropListHandler{svc: svc, logger: logger}
}

// Handle processes the /droplist command.
func (h *DropListHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return usage(bot, message.Chat.ID, "Please provide a list name.\nUsage: `/droplist Lunch`")
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := h.svc.Preferences.DeleteCustomList(ctx, name); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 List *%s* deleted.", esc(name)))
}

package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/scenario"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
)

// WizardPrefix routes inline keyboard presses to the picker
const WizardPrefix = "wiz"

func wizData(parts ...string) string {
	return WizardPrefix + ":" + strings.Join(parts, ":")
}

// wizardScreen is what the picker message shows besides the wizard itself
type wizardScreen struct {
	Settings models.Settings
	Favorite bool
}

// renderWizard builds the message text and keyboard for a wizard position
func renderWizard(v wizard.View, screen wizardScreen) (string, tgbotapi.InlineKeyboardMarkup) {
	nav := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", wizData("back")),
		tgbotapi.NewInlineKeyboardButtonData("🏠 Start over", wizData("home")),
	)
	current := scenario.DisplayName(v.State.Scenario, v.State.CustomListName)

	switch v.Step {
	case wizard.StepType:
		text := fmt.Sprintf("🍽 *Step 2/3: meal or snack?*\nScenario: %s", esc(current))
		return text, tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark(v.State.MealOrSnack == models.KindMeal)+"🍚 Meal", wizData("k", string(models.KindMeal))),
				tgbotapi.NewInlineKeyboardButtonData(mark(v.State.MealOrSnack == models.KindSnack)+"🍩 Snack", wizData("k", string(models.KindSnack))),
			),
			nav,
		)

	case wizard.StepCategory:
		text := fmt.Sprintf("📂 *Step 3/3: choose a category*\nScenario: %s", esc(current))
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, c := range models.CategoriesFor(v.State.MealOrSnack) {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark(v.State.Category == c)+c.Label(), wizData("c", string(c))),
			))
		}
		rows = append(rows, nav)
		return text, tgbotapi.NewInlineKeyboardMarkup(rows...)

	case wizard.StepResult:
		return renderResult(v, screen, current, nav)

	default:
		var sb strings.Builder
		sb.WriteString("🎯 *Step 1/3: choose a scenario*\n\n")
		var rows [][]tgbotapi.InlineKeyboardButton
		var row []tgbotapi.InlineKeyboardButton
		for _, s := range models.Scenarios() {
			sb.WriteString(fmt.Sprintf("%s - %s\n", scenario.DisplayName(s, ""), esc(scenario.Describe(s, screen.Settings))))
			label := mark(v.State.Scenario == s) + scenario.DisplayName(s, "")
			data := wizData("sc", string(s))
			if s == models.ScenarioCustom {
				label = mark(v.State.Scenario == s) + scenario.DisplayName(s, v.State.CustomListName)
				data = wizData("custom")
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
}

func renderResult(v wizard.View, screen wizardScreen, current string, nav []tgbotapi.InlineKeyboardButton) (string, tgbotapi.InlineKeyboardMarkup) {
	r := v.State.DrawnResult
	again := tgbotapi.NewInlineKeyboardButtonData("🎲 Draw again", wizData("again"))
	header := fmt.Sprintf("%s · %s\n\n", esc(current), esc(v.State.Category.Label()))

	switch {
	case r == nil:
		return header + "🎲 No draw yet.", tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(again), nav)

	case r.Outcome == models.DrawOutcomeError:
		text := header + "⚠️ *Could not load foods.*\n" + esc(r.Error) + "\n\nTry drawing again in a moment."
		return text, tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(again), nav)

	case r.Outcome == models.DrawOutcomeEmpty:
		text := header + "😕 *No eligible foods.*\nEverything in this category is filtered out. Try another scenario or category."
		return text, tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(again), nav)
	}

	winner, _ := r.Winner()
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(fmt.Sprintf("🎉 *%s*\n", esc(winner.Name)))
	sb.WriteString(fmt.Sprintf("🔥 %.0f kcal · 💰 %d · ⏱ %d min\n", winner.Calories, winner.Price, winner.PrepTimeMinutes))
	sb.WriteString("\nAlso consider:\n")
	for i, s := range r.Slots[1:] {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+2, esc(s.Label())))
	}
	sb.WriteString(fmt.Sprintf("\n_%d eligible_", r.EligibleCount))

	favLabel := "❤️ Favorite"
	if screen.Favorite {
		favLabel = "💔 Unfavorite"
	}
	id := r.ID.String()
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			again,
			tgbotapi.NewInlineKeyboardButtonData(favLabel, wizData("fav", id)),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Exclude", wizData("ex", id)),
		),
		nav,
	)
}

// renderListPicker offers the custom lists for the custom scenario
func renderListPicker(lists []string) (string, tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, name := range lists {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 "+name, wizData("cl", strconv.Itoa(i))),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", wizData("home")),
	))
	return "📝 *Choose a custom list*", tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mark(selected bool) string {
	if selected {
		return "✅ "
	}
	return ""
}

// ---------------------------------------------------------------------------
// PickHandler – /pick
// ---------------------------------------------------------------------------

// PickHandler starts the picker wizard and handles its buttons
type PickHandler struct {
	svc      *service.Service
	sessions *wizard.Sessions
	logger   *logrus.Logger
}

// NewPickHandler creates a new PickHandler.
func NewPickHandler(svc *service.Service, sessions *wizard.Sessions, logger *logrus.Logger) *PickHandler {
	return &PickHandler{svc: svc, sessions: sessions, logger: logger}
}

func (h *PickHandler) screen(v wizard.View) wizardScreen {
	s := wizardScreen{Settings: h.svc.Preferences.Settings()}
	if food, ok := v.State.DrawnResult.Winner(); ok {
		s.Favorite = h.svc.Preferences.IsFavorite(food.Name)
	}
	return s
}

// Handle processes the /pick command with a fresh wizard.
func (h *PickHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.sessions.Reset(chatKey(message.Chat.ID))
	v := w.View()
	text, markup := renderWizard(v, h.screen(v))

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = markup
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send picker: %w", err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Picker started")
	return nil
}

// HandleCallback processes a picker button press.
func (h *PickHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	chatID := query.Message.Chat.ID
	w := h.sessions.Get(chatKey(chatID))

	ctx, cancel := commandContext()
	defer cancel()

	action, arg, _ := strings.Cut(data, ":")
	answer, err := h.apply(ctx, w, action, arg)

	if action == "custom" && err == nil && answer == "" {
		text, markup := renderListPicker(h.svc.Preferences.CustomListNames())
		bot.Request(tgbotapi.NewCallback(query.ID, ""))
		return h.edit(bot, query.Message, text, markup)
	}

	if err != nil {
		text, ok := userMessage(err)
		if !ok {
			return err
		}
		answer = text
	}
	bot.Request(tgbotapi.NewCallback(query.ID, answer))

	v := w.View()
	text, markup := renderWizard(v, h.screen(v))
	return h.edit(bot, query.Message, text, markup)
}

// apply runs one button action and returns an optional toast for the user
func (h *PickHandler) apply(ctx context.Context, w *wizard.Wizard, action, arg string) (string, error) {
	switch action {
	case "sc":
		if _, err := w.SelectScenario(models.Scenario(arg), ""); err != nil {
			return "", err
		}
		_, err := w.Next(ctx)
		return "", err

	case "custom":
		if len(h.svc.Preferences.CustomListNames()) == 0 {
			return "You have no custom lists yet. Create one with /newlist", nil
		}
		return "", nil

	case "cl":
		lists := h.svc.Preferences.CustomListNames()
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 || i >= len(lists) {
			return "That list no longer exists", nil
		}
		if _, err := w.SelectScenario(models.ScenarioCustom, lists[i]); err != nil {
			return "", err
		}
		_, err = w.Next(ctx)
		return "", err

	case "k":
		if _, err := w.SelectMealOrSnack(models.Kind(arg)); err != nil {
			return "", err
		}
		_, err := w.Next(ctx)
		return "", err

	case "c":
		if _, err := w.SelectCategory(models.Category(arg)); err != nil {
			return "", err
		}
		_, err := w.Next(ctx)
		return "", err

	case "back":
		_, err := w.Back()
		return "", err

	case "home":
		w.QuickBack()
		return "", nil

	case "again":
		_, err := w.DrawAgain(ctx)
		return "", err

	case "fav":
		if stale(w, arg) {
			return "This result is out of date", nil
		}
		now, err := w.ToggleFavorite(ctx)
		if err != nil {
			return "", err
		}
		if now {
			return "❤️ Added to favorites", nil
		}
		return "💔 Removed from favorites", nil

	case "ex":
		if stale(w, arg) {
			return "This result is out of date", nil
		}
		before, _ := w.View().State.DrawnResult.Winner()
		if _, err := w.Exclude(ctx); err != nil {
			return "", err
		}
		h.logger.WithField("name", before.Name).Info("Food excluded from picker")
		return fmt.Sprintf("🚫 %s won't be picked again", before.Name), nil

	default:
		return "Unknown action", nil
	}
}

// stale reports whether a result button belongs to an older draw
func stale(w *wizard.Wizard, drawID string) bool {
	r := w.View().State.DrawnResult
	return r == nil || r.ID.String() != drawID
}

func (h *PickHandler) edit(bot telegram.Sender, message *tgbotapi.Message, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(message.Chat.ID, message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("failed to update picker: %w", err)
	}
	return nil
}

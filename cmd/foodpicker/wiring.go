package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/handlers"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
)

// registerBot wires every command and callback prefix onto the bot
func registerBot(bot *telegram.Bot, svc *service.Service, sessions *wizard.Sessions, l *logrus.Logger) {
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))

	// Picker
	pick := handlers.NewPickHandler(svc, sessions, l)
	bot.RegisterCommand("pick", pick)
	bot.RegisterCallback(handlers.WizardPrefix, pick)

	// Catalog
	reset := handlers.NewResetFoodsHandler(svc, l)
	bot.RegisterCommand("foods", handlers.NewFoodsHandler(svc, l))
	bot.RegisterCommand("addfood", handlers.NewAddFoodHandler(svc, l))
	bot.RegisterCommand("delfood", handlers.NewDelFoodHandler(svc, l))
	bot.RegisterCommand("resetfoods", reset)
	bot.RegisterCallback(handlers.FoodsPrefix, reset)

	// Preferences
	bot.RegisterCommand("fav", handlers.NewFavHandler(svc, l))
	bot.RegisterCommand("unfav", handlers.NewUnfavHandler(svc, l))
	bot.RegisterCommand("block", handlers.NewBlockHandler(svc, l))
	bot.RegisterCommand("unblock", handlers.NewUnblockHandler(svc, l))

	// Custom lists
	bot.RegisterCommand("lists", handlers.NewListsHandler(svc, l))
	bot.RegisterCommand("newlist", handlers.NewNewListHandler(svc, l))
	bot.RegisterCommand("listadd", handlers.NewListAddHandler(svc, l))
	bot.RegisterCommand("listdel", handlers.NewListDelHandler(svc, l))
	bot.RegisterCommand("droplist", handlers.NewDropListHandler(svc, l))

	// Settings
	bot.RegisterCommand("settings", handlers.NewSettingsHandler(svc, l))
	bot.RegisterCommand("stats", handlers.NewStatsHandler(svc, l))

	if err := bot.SetCommands(handlers.BotCommands()); err != nil {
		l.WithError(err).Warn("Failed to publish command menu")
	}
}

func serve(srv *http.Server, name string, l *logrus.Logger) {
	l.WithField("addr", srv.Addr).Infof("%s listening", name)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.WithError(err).Errorf("%s failed", name)
	}
}

// Package bot wires the quiz engine to the Telegram transport: commands,
// button callbacks, the authoring conversation, and the background reaper.
package bot

import (
	"context"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/bootstrap"
	corecmd "github.com/m3rciful/quizbot/core/cmd"
	coreconfig "github.com/m3rciful/quizbot/core/config"
	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/core/telegram/middleware"
	"github.com/m3rciful/quizbot/core/telegram/router"
	"github.com/m3rciful/quizbot/internal/authoring"
	"github.com/m3rciful/quizbot/internal/session"
	"github.com/m3rciful/quizbot/internal/storage"
)

// App aggregates the bot's runtime components.
type App struct {
	cfg *coreconfig.Config
	db  *sqlx.DB

	quizzes *storage.QuizRepo
	admins  *storage.AdminRepo

	sessions *session.Store
	guard    *session.Guard
	flow     *authoring.Flow
	reaper   *session.Reaper
	pages    *pageMemory
}

// configFile carries the loaded configuration into the runner.
type configFile struct {
	cfg *coreconfig.Config
}

// CoreConfig exposes the embedded core configuration.
func (f *configFile) CoreConfig() *coreconfig.Config { return f.cfg }

// LoadConfig reads and normalizes the bot configuration file.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &configFile{cfg: cfg}, nil
}

// Bootstrap initializes infrastructure and assembles the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore()
	conversations := authoring.NewStore()
	quizzes := storage.NewQuizRepo(res.DB)

	app := &App{
		cfg:      cfg,
		db:       res.DB,
		quizzes:  quizzes,
		admins:   storage.NewAdminRepo(res.DB, cfg.Quiz.RootAdminIDs),
		sessions: sessions,
		guard:    session.NewGuard(),
		flow:     authoring.NewFlow(conversations, quizzes),
		reaper: session.NewReaper(session.ReaperOptions{
			Interval: cfg.Quiz.ReaperInterval(),
			Timeout:  cfg.Quiz.SessionTimeout(),
		}, sessions, conversations),
		pages: newPageMemory(),
	}
	return app, nil
}

// TelegramRunOptions builds the bot runtime: registry, routes, middleware,
// and the lifecycle hooks that start the reaper and close the database.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			go a.reaper.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// InProgress reports whether the sender has an authoring conversation open.
// Together with ManagerHandler it satisfies the text router's FSM contract.
func (a *App) InProgress(userID int64) bool {
	return a.flow.InProgress(userID)
}

// ManagerHandler feeds free text into the authoring conversation.
func (a *App) ManagerHandler(c tele.Context) error {
	return a.handleAuthoringText(c)
}

func (a *App) accessOptions() middleware.AccessOptions {
	return middleware.AccessOptions{
		Checker:  a.admins,
		OnReject: a.rejectUnauthorized,
	}
}

func (a *App) rejectUnauthorized(c tele.Context) error {
	return tghelpers.SendText(c, msgNotAllowed)
}

// registerCommands wires the command surface. Admin management is gated to
// root admins at registration time, so every dispatch path sees the gate.
func (a *App) registerCommands(reg *tg.Registry) {
	gate := a.accessOptions()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.cmdStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/addadmin", commands.Command{
		Handler:     middleware.WithRootAdminCheck(gate, a.cmdAddAdmin),
		Description: "Grant admin rights",
		RootOnly:    true,
		Hidden:      true,
	})
	reg.RegisterCommand("/removeadmin", commands.Command{
		Handler:     middleware.WithRootAdminCheck(gate, a.cmdRemoveAdmin),
		Description: "Revoke admin rights",
		RootOnly:    true,
		Hidden:      true,
	})
	reg.RegisterCommand("/listadmins", commands.Command{
		Handler:     middleware.WithRootAdminCheck(gate, a.cmdListAdmins),
		Description: "List granted admins",
		RootOnly:    true,
		Hidden:      true,
	})
}

// registerCallbacks wires every button payload. Unknown payloads fall
// through the registry's nil fallback and are dropped silently.
func (a *App) registerCallbacks(reg *tg.Registry) {
	gate := a.accessOptions()

	_ = reg.RegisterCallback(cbTakeQuiz, a.cbTakeQuiz)
	_ = reg.RegisterCallbackPrefix(cbPagePrefix, a.cbPage)
	_ = reg.RegisterCallbackPrefix(cbQuizPrefix, a.cbQuizSelect)
	_ = reg.RegisterCallbackPrefix(cbAnswerPrefix, a.cbAnswer)
	_ = reg.RegisterCallbackPrefix(cbDeletePrefix, middleware.WithAdminCheck(gate, a.cbDeleteQuiz))

	_ = reg.RegisterCallback(cbCreateQuiz, middleware.WithAdminCheck(gate, a.cbCreateQuiz))
	_ = reg.RegisterCallback(cbAddOne, middleware.WithAdminCheck(gate, a.cbAddOne))
	_ = reg.RegisterCallback(cbAddBulk, middleware.WithAdminCheck(gate, a.cbAddBulk))
	_ = reg.RegisterCallback(cbFinish, middleware.WithAdminCheck(gate, a.cbFinish))
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"telegram-team-bot/internal/agent"
	"telegram-team-bot/internal/config"
	"telegram-team-bot/internal/handlers"
	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/llm"
	"telegram-team-bot/internal/logx"
	"telegram-team-bot/internal/mood"
	"telegram-team-bot/internal/store"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func runBot(cmd *cobra.Command) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logx.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("config loaded", slog.String("config", cfg.String()))

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	api.Debug = cfg.LogLevel == "debug"
	logger.Info("bot authorized", slog.String("as", api.Self.UserName))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jiraClient, err := newJira(cfg)
	if err != nil {
		return err
	}
	if jiraClient == nil {
		logger.Warn("jira is not configured, task commands are disabled")
	}

	var (
		completer  agent.Completer = llm.Unconfigured{}
		classifier mood.Classifier
	)
	if cfg.LLMEnabled() {
		client := llm.NewClient(llm.Config{
			APIKey:          cfg.OpenAIAPIKey,
			BaseURL:         cfg.OpenAIBaseURL,
			Model:           cfg.OpenAIModel,
			VisionModel:     cfg.OpenAIVisionModel,
			ClassifierModel: cfg.OpenAIClassifierModel,
		})
		completer, classifier = client, client
	} else {
		logger.Warn("OPENAI_API_KEY is not set, mentions will get an error notice")
	}

	var moods *mood.Manager
	if cfg.MoodEnabled {
		table, err := loadMoodTable(cfg.MoodTablePath)
		if err != nil {
			return err
		}
		moods = mood.NewManager(table, classifier, logger.With(slog.String("component", "mood")))
	}

	hist := history.NewStore(cfg.HistoryLimit, logger)
	tickets := store.NewTicketStore()
	smart := agent.New(ctx, agent.Config{
		BotHandle:    api.Self.UserName,
		Timeout:      cfg.LLMTimeout,
		MoodEnabled:  cfg.MoodEnabled,
		MoodPrefix:   cfg.MoodStatusPrefix,
		HistoryLimit: cfg.HistoryLimit,
	}, agent.Deps{
		Sender:  tg.ChatSender{API: api},
		LLM:     completer,
		History: hist,
		Mood:    moods,
		Log:     logger,
	})
	defer smart.Close()

	services := &tg.Services{
		BotName:       api.Self.UserName,
		ChannelID:     cfg.ChannelID,
		Jira:          jiraClient,
		Agent:         smart,
		History:       hist,
		Mood:          moods,
		Tickets:       tickets,
		Conversations: tg.NewConversationStore(0),
	}

	dispatcher := tg.NewDispatcher()
	handlers.Register(dispatcher)

	var wg sync.WaitGroup
	if jiraClient != nil && cfg.TasksDigestCron != "" {
		sched, err := tg.NewScheduler(cfg.TasksDigestCron, func(ctx context.Context) error {
			return handlers.PostDigest(ctx, jiraClient, api, cfg.ChannelID)
		}, logger.With(slog.String("component", "digest")))
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
	}
	if jiraClient != nil && cfg.TicketPoll > 0 {
		watcher := tg.NewTicketWatcher(jiraClient, tickets, api, cfg.TicketPoll, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			watcher.Run(ctx)
		}()
	}

	b := tg.New(api, logger, tg.Options{
		Workers:        cfg.Workers,
		UpdatesTimeout: cfg.UpdatesTimeout,
		Commands:       handlers.BotCommands(),
	}, services, dispatcher,
		tg.LogDuration(),
		tg.NotifyErrors(text.GenericError()),
		tg.Recover(),
	)

	err = b.Run(ctx)
	stop()
	wg.Wait()
	logger.Info("bot stopped")
	return err
}

// newJira returns nil when Jira credentials are not configured.
func newJira(cfg config.Config) (*jira.Client, error) {
	if !cfg.JiraEnabled() {
		return nil, nil
	}
	return jira.New(jira.Options{
		Server:     cfg.JiraServer,
		Email:      cfg.JiraEmail,
		APIToken:   cfg.JiraAPIToken,
		ProjectKey: cfg.JiraProjectKey,
		IssueType:  cfg.JiraIssueType,
	})
}

func loadMoodTable(path string) (mood.Table, error) {
	if path == "" {
		return mood.DefaultTable(), nil
	}
	table, err := mood.LoadTable(path)
	if err != nil {
		return nil, fmt.Errorf("mood table: %w", err)
	}
	return table, nil
}

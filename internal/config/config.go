package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/logx"
)

type Config struct {
	BotToken       string
	AdminIDs       []int64
	LogLevel       string
	LogFormat      string
	UpdatesTimeout int
	Workers        int

	JiraServer     string
	JiraEmail      string
	JiraAPIToken   string
	JiraProjectKey string
	JiraIssueType  string

	ChannelID       string
	TasksDigestCron string
	// TicketPoll is how often issues created from chats are re-checked;
	// zero disables the watcher.
	TicketPoll time.Duration

	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIModel           string
	OpenAIVisionModel     string
	OpenAIClassifierModel string
	LLMTimeout            time.Duration

	HistoryLimit     int
	MoodEnabled      bool
	MoodStatusPrefix bool
	MoodTablePath    string
}

// ConfigError lists every invalid setting found by Validate.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "config: " + strings.Join(e.Problems, "; ")
}

// Load reads .env (when present) and the environment. Parsing problems are
// deferred to Validate.
func Load() Config {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() Config {
	return Config{
		BotToken:       strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		AdminIDs:       parseIDs(os.Getenv("ADMIN_IDS")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
		UpdatesTimeout: atoi(getenv("UPDATES_TIMEOUT", "60"), 60),
		Workers:        atoi(getenv("WORKERS", "4"), 4),

		JiraServer:     strings.TrimRight(getenv("JIRA_SERVER", ""), "/"),
		JiraEmail:      getenv("JIRA_EMAIL", ""),
		JiraAPIToken:   getenv("JIRA_API_TOKEN", ""),
		JiraProjectKey: getenv("JIRA_PROJECT_KEY", ""),
		JiraIssueType:  getenv("JIRA_ISSUE_TYPE", "Task"),

		ChannelID:       getenv("CHANNEL_ID", ""),
		TasksDigestCron: strings.TrimSpace(getenv("TASKS_DIGEST_CRON", "")),
		TicketPoll:      time.Duration(atoi(getenv("TICKET_POLL_SECONDS", "300"), 300)) * time.Second,

		OpenAIAPIKey:          getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getenv("OPENAI_BASE_URL", ""),
		OpenAIModel:           getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIVisionModel:     getenv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
		OpenAIClassifierModel: getenv("OPENAI_CLASSIFIER_MODEL", "gpt-4o-mini"),
		LLMTimeout:            time.Duration(atoi(getenv("LLM_TIMEOUT_SECONDS", "60"), 60)) * time.Second,

		HistoryLimit:     atoi(getenv("HISTORY_LIMIT", "30"), 30),
		MoodEnabled:      atob(getenv("MOOD_ENABLED", "true"), true),
		MoodStatusPrefix: atob(getenv("MOOD_STATUS_PREFIX", "false"), false),
		MoodTablePath:    getenv("MOOD_TABLE_PATH", ""),
	}
}

// JiraEnabled reports whether every Jira credential is set.
func (c Config) JiraEnabled() bool {
	return c.JiraServer != "" && c.JiraEmail != "" && c.JiraAPIToken != "" && c.JiraProjectKey != ""
}

func (c Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func (c Config) Validate() error {
	var problems []string
	if c.BotToken == "" {
		problems = append(problems, "BOT_TOKEN is required")
	}
	if c.Workers < 1 {
		problems = append(problems, "WORKERS must be positive")
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > history.DefaultLimit {
		problems = append(problems, fmt.Sprintf("HISTORY_LIMIT must be between 1 and %d", history.DefaultLimit))
	}
	if c.LLMTimeout <= 0 {
		problems = append(problems, "LLM_TIMEOUT_SECONDS must be positive")
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, "LOG_LEVEL: "+err.Error())
	}
	if _, err := logx.ParseFormat(c.LogFormat); err != nil {
		problems = append(problems, "LOG_FORMAT: "+err.Error())
	}
	if c.TasksDigestCron != "" {
		if c.ChannelID == "" {
			problems = append(problems, "TASKS_DIGEST_CRON needs CHANNEL_ID")
		}
		if _, err := cron.ParseStandard(c.TasksDigestCron); err != nil {
			problems = append(problems, "TASKS_DIGEST_CRON: "+err.Error())
		}
	}
	if c.TicketPoll < 0 {
		problems = append(problems, "TICKET_POLL_SECONDS must not be negative")
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// IsConfigError reports whether err came from Validate.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ChannelChatID resolves CHANNEL_ID as a numeric id; "@name" channels
// return ok=false and are addressed by username.
func (c Config) ChannelChatID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.ChannelID), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c Config) String() string {
	return fmt.Sprintf("workers=%d jira=%t llm=%t mood=%t history=%d", c.Workers, c.JiraEnabled(), c.LLMEnabled(), c.MoodEnabled, c.HistoryLimit)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func atoi(s string, d int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return d
}

func atob(s string, d bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		return b
	}
	return d
}

// parseIDs reads a comma separated id list, skipping malformed items.
func parseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

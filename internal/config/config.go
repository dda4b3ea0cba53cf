// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

type Config struct {
	BaseURL    string   `yaml:"base_url"`
	Categories []string `yaml:"categories"`
	//Listing behaviour
	PageSize       int  `yaml:"page_size"`
	ApplyUIFilters bool `yaml:"apply_ui_filters"`
	//Timeouts and retries (milliseconds)
	NavTimeoutMs       float64 `yaml:"nav_timeout_ms"`
	ChallengeTimeoutMs float64 `yaml:"challenge_timeout_ms"`
	NavRetries         int     `yaml:"nav_retries"`
	//Browser
	Headful  bool    `yaml:"headful"`
	SlowMoMs float64 `yaml:"slowmo_ms"`
	//Paths
	JSONPath      string `yaml:"json_path"`
	CSVPath       string `yaml:"csv_path"`
	CleanJSONPath string `yaml:"clean_json_path"`
	SummaryPath   string `yaml:"summary_path"`
	SeenPath    string `yaml:"seen_path"`
	DebugDir    string `yaml:"debug_dir"`
	CookiesPath string `yaml:"cookies_path"`
	//Notifier (optional: empty token disables it)
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// DefaultCategories is the tech/data category list used when the config
// names none. The near-duplicates are intentional: the site's category
// vocabulary is not normalized and each spelling is a distinct option.
var DefaultCategories = []string{
	"IT - Hardware",
	"IT - Software",
	"IT Billing",
	"Data Security/Protection",
	"Computer Science",
	"Computer Operator",
	"Information Technology",
	"Software engineering",
	"software development",
	"it software and Hardware",
	"Software developer",
	"Database Developing",
	"Data Management",
	"Data Entry",
	"Data analysis",
	"Data Science",
	"database administration",
	"Database Development",
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Could not read config.yaml, using defaults")
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Log.Fatal().Err(err).Msg("Error parsing config.yaml")
		}
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Invalid TELEGRAM_CHAT_ID")
		}
		cfg.TelegramChatID = id
	}
	if cats := os.Getenv("JOBSAF_CATEGORIES"); cats != "" {
		cfg.Categories = nil
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Categories = append(cfg.Categories, c)
			}
		}
	}

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://jobs.af"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.NavTimeoutMs <= 0 {
		cfg.NavTimeoutMs = 60000
	}
	if cfg.ChallengeTimeoutMs <= 0 {
		cfg.ChallengeTimeoutMs = 45000
	}
	if cfg.NavRetries <= 0 {
		cfg.NavRetries = 3
	}
	if cfg.SlowMoMs < 0 {
		cfg.SlowMoMs = 0
	}
	if cfg.JSONPath == "" {
		cfg.JSONPath = "output/jobs_raw.json"
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = "output/jobs_raw.csv"
	}
	if cfg.CleanJSONPath == "" {
		cfg.CleanJSONPath = "output/jobs.json"
	}
	if cfg.SummaryPath == "" {
		cfg.SummaryPath = "output/summary.json"
	}
	if cfg.SeenPath == "" {
		cfg.SeenPath = ".cache"
	}
	if cfg.DebugDir == "" {
		cfg.DebugDir = "logs/screenshots"
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies/cookies-jobsaf.json"
	}
}

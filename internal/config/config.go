package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port                int                `json:"port"`
	DBDSN               string             `json:"db_dsn"`
	MigrationsDir       string             `json:"migrations_dir"`
	LogConfig           logger.LogConfig   `json:"log_config"`
	CORSAllowOrigins    []string           `json:"cors_allow_origins"`
	SubmitWindowSeconds int                `json:"submit_window_seconds"`
	AI                  AIConfig           `json:"ai"`
	Edgar               EdgarConfig        `json:"edgar"`
	AlphaVantage        AlphaVantageConfig `json:"alpha_vantage"`
	Yahoo               YahooConfig        `json:"yahoo"`
	Ingest              IngestConfig       `json:"ingest"`
	Answer              AnswerConfig       `json:"answer"`
	Archive             ArchiveConfig      `json:"archive"`
	TaskCleanup         TaskCleanupConfig  `json:"task_cleanup"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	GenerateModel  string      `json:"generate_model"`
	EmbedModel     string      `json:"embed_model"`
	EmbedDim       int         `json:"embed_dim"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	MaxInputChars  int         `json:"max_input_chars"`
	Data           interface{} `json:"data"`
}

type EdgarConfig struct {
	UserAgent    string   `json:"user_agent"`
	BaseURL      string   `json:"base_url"`
	DataURL      string   `json:"data_url"`
	Forms        []string `json:"forms"`
	FilingLimit  int      `json:"filing_limit"`
	FetchDelayMS *int     `json:"fetch_delay_ms"`
}

type AlphaVantageConfig struct {
	APIKey    string `json:"api_key"`
	BaseURL   string `json:"base_url"`
	NewsLimit int    `json:"news_limit"`
}

type YahooConfig struct {
	BaseURL   string `json:"base_url"`
	NewsLimit int    `json:"news_limit"`
}

// ChunkOverlap, BatchPauseMS and FetchDelayMS are pointers so an
// explicit zero is distinguishable from an absent key.
type IngestConfig struct {
	ChunkSize      int  `json:"chunk_size"`
	ChunkOverlap   *int `json:"chunk_overlap"`
	EmbedBatchSize int  `json:"embed_batch_size"`
	BatchPauseMS   *int `json:"batch_pause_ms"`
	Workers        int  `json:"workers"`
}

type AnswerConfig struct {
	TopK int `json:"top_k"`
}

// ArchiveConfig enables raw filing archival when Type is set.
type ArchiveConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type TaskCleanupConfig struct {
	Cron     string `json:"cron"`
	KeepDays int    `json:"keep_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("db_dsn is required")
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.SubmitWindowSeconds < 0 {
		return nil, fmt.Errorf("submit_window_seconds must not be negative")
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.GenerateModel == "" {
		cfg.AI.GenerateModel = "gemini-2.5-flash-lite"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "gemini-embedding-001"
	}
	if cfg.AI.EmbedDim == 0 {
		cfg.AI.EmbedDim = 768
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 8000
	}
	if cfg.Edgar.UserAgent == "" {
		cfg.Edgar.UserAgent = "CognivestAI/1.0 (cognivest_dev@example.com)"
	}
	if len(cfg.Edgar.Forms) == 0 {
		cfg.Edgar.Forms = []string{"10-K", "10-Q"}
	}
	if cfg.Edgar.FilingLimit == 0 {
		cfg.Edgar.FilingLimit = 1
	}
	cfg.Edgar.FetchDelayMS = orDefault(cfg.Edgar.FetchDelayMS, 200)
	if *cfg.Edgar.FetchDelayMS < 0 {
		return nil, fmt.Errorf("edgar.fetch_delay_ms must not be negative")
	}
	if cfg.AlphaVantage.NewsLimit == 0 {
		cfg.AlphaVantage.NewsLimit = 5
	}
	if cfg.Yahoo.NewsLimit == 0 {
		cfg.Yahoo.NewsLimit = 5
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 2000
	}
	cfg.Ingest.ChunkOverlap = orDefault(cfg.Ingest.ChunkOverlap, 200)
	if *cfg.Ingest.ChunkOverlap < 0 {
		return nil, fmt.Errorf("ingest.chunk_overlap must not be negative")
	}
	if *cfg.Ingest.ChunkOverlap >= cfg.Ingest.ChunkSize {
		return nil, fmt.Errorf("ingest.chunk_overlap must be smaller than ingest.chunk_size")
	}
	if cfg.Ingest.EmbedBatchSize == 0 {
		cfg.Ingest.EmbedBatchSize = 5
	}
	cfg.Ingest.BatchPauseMS = orDefault(cfg.Ingest.BatchPauseMS, 500)
	if *cfg.Ingest.BatchPauseMS < 0 {
		return nil, fmt.Errorf("ingest.batch_pause_ms must not be negative")
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = 4
	}
	if cfg.Answer.TopK == 0 {
		cfg.Answer.TopK = 5
	}
	if cfg.TaskCleanup.Cron == "" {
		cfg.TaskCleanup.Cron = "0 3 * * *"
	}
	if cfg.TaskCleanup.KeepDays == 0 {
		cfg.TaskCleanup.KeepDays = 7
	}
	return &cfg, nil
}

func orDefault(v *int, def int) *int {
	if v != nil {
		return v
	}
	return &def
}

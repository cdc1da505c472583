package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
)

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Mtproto MtprotoConfig `yaml:"mtproto"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Index   IndexConfig   `yaml:"index"`
	Files   FilesConfig   `yaml:"files"`
}

type BotConfig struct {
	Token string `yaml:"token"`
	Proxy string `yaml:"proxy"`
}

type MtprotoConfig struct {
	// MTProto credentials from https://my.telegram.org/apps.
	// The client logs in with the bot token, no phone number involved.
	APIID       int    `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	SessionFile string `yaml:"session_file"`
	Proxy       string `yaml:"proxy"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type IndexConfig struct {
	MaxMessages int    `yaml:"max_messages"` // single-pass cap
	BatchSize   int    `yaml:"batch_size"`   // history page size
	BatchDelay  string `yaml:"batch_delay"`  // pause between pages, e.g. "2s"

	BatchDelayDur time.Duration `yaml:"-"` // parsed from BatchDelay
}

type FilesConfig struct {
	DownloadDir string `yaml:"download_dir"`
}

func LoadConfig(path string) (*Config, error) {
	// load environment variables from .env file
	if err := godotenv.Load(); err == nil {
		logger.Info.Println("loaded environment variables from .env file")
	}

	// 1. read file
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	// 2. expand environment variables
	expanded := os.ExpandEnv(string(raw))

	// 3. parse yaml
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml failed: %w", err)
	}

	// 4. validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Bot.Validate(); err != nil {
		return fmt.Errorf("bot config invalid: %w", err)
	}
	if err := c.Mtproto.Validate(); err != nil {
		return fmt.Errorf("mtproto config invalid: %w", err)
	}
	if err := c.Mongo.Validate(); err != nil {
		return fmt.Errorf("mongo config invalid: %w", err)
	}
	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index config invalid: %w", err)
	}
	if err := c.Files.Validate(); err != nil {
		return fmt.Errorf("files config invalid: %w", err)
	}
	return nil
}

func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("bot.token is required (get from @BotFather)")
	}
	return nil
}

func (c *MtprotoConfig) Validate() error {
	if c.APIID == 0 {
		return fmt.Errorf("api_id is required (get from https://my.telegram.org/apps)")
	}
	if c.APIHash == "" {
		return fmt.Errorf("api_hash is required (get from https://my.telegram.org/apps)")
	}
	if c.SessionFile == "" {
		c.SessionFile = "session.json"
	}
	return nil
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("uri is required")
	}
	if c.Database == "" {
		c.Database = "movie_bot"
	}
	return nil
}

func (c *IndexConfig) Validate() error {
	if c.MaxMessages <= 0 {
		c.MaxMessages = 1000
	}
	if c.BatchSize <= 0 || c.BatchSize > 100 {
		c.BatchSize = 100
	}
	if c.BatchDelay == "" {
		c.BatchDelayDur = 2 * time.Second
		return nil
	}
	d, err := time.ParseDuration(c.BatchDelay)
	if err != nil {
		return fmt.Errorf("invalid batch_delay: %w", err)
	}
	c.BatchDelayDur = d
	return nil
}

func (c *FilesConfig) Validate() error {
	if c.DownloadDir == "" {
		c.DownloadDir = "downloads"
	}
	if _, err := os.Stat(c.DownloadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DownloadDir, 0o755); err != nil {
			return fmt.Errorf("failed to create download_dir: %w", err)
		}
	}
	return nil
}

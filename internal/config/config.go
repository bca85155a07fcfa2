package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Notion   NotionConfig `yaml:"notion"`
	Images   ImagesConfig `yaml:"images"`
	Git      GitConfig    `yaml:"git"`
	GitHub   GitHubConfig `yaml:"github"`
	Deploy   DeployConfig `yaml:"deploy"`
	Sync     SyncConfig   `yaml:"sync"`
	LogLevel string       `yaml:"log_level"`
}

type NotionConfig struct {
	Token           string           `yaml:"token"`
	DatabaseID      string           `yaml:"database_id"`
	PublishedStatus string           `yaml:"published_status"`
	Properties      PropertyBindings `yaml:"properties"`
}

// PropertyBindings names the database columns the repository reads. The
// defaults match the source database's localized labels.
type PropertyBindings struct {
	Title           string `yaml:"title"`
	Slug            string `yaml:"slug"`
	Status          string `yaml:"status"`
	PublishedDate   string `yaml:"published_date"`
	Tags            string `yaml:"tags"`
	MetaDescription string `yaml:"meta_description"`
}

type ImagesConfig struct {
	Dir          string        `yaml:"dir"`
	AllowedHosts []string      `yaml:"allowed_hosts"`
	RawHost      string        `yaml:"raw_host"`
	Owner        string        `yaml:"owner"`
	Repo         string        `yaml:"repo"`
	Branch       string        `yaml:"branch"`
	Timeout      time.Duration `yaml:"timeout"`
}

// BaseURL is the durable prefix rewritten image references point at.
func (i ImagesConfig) BaseURL() string {
	return fmt.Sprintf("https://%s/%s/%s/%s", i.RawHost, i.Owner, i.Repo, i.Branch)
}

type GitConfig struct {
	Remote string `yaml:"remote"`
	Branch string `yaml:"branch"`
}

type GitHubConfig struct {
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type DeployConfig struct {
	Enabled bool   `yaml:"enabled"`
	App     string `yaml:"app"`
}

type SyncConfig struct {
	StateFile string        `yaml:"state_file"`
	Interval  time.Duration `yaml:"interval"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Validate checks the secrets the pipeline cannot run without. Everything
// else has a usable default.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Notion.PublishedStatus == "" {
		c.Notion.PublishedStatus = "Published"
	}
	if c.Notion.Properties.Title == "" {
		c.Notion.Properties.Title = "제목"
	}
	if c.Notion.Properties.Slug == "" {
		c.Notion.Properties.Slug = "슬러그"
	}
	if c.Notion.Properties.Status == "" {
		c.Notion.Properties.Status = "상태"
	}
	if c.Notion.Properties.PublishedDate == "" {
		c.Notion.Properties.PublishedDate = "발행일"
	}
	if c.Notion.Properties.Tags == "" {
		c.Notion.Properties.Tags = "태그"
	}
	if c.Notion.Properties.MetaDescription == "" {
		c.Notion.Properties.MetaDescription = "메타 설명"
	}
	if c.Images.Dir == "" {
		c.Images.Dir = "images"
	}
	if len(c.Images.AllowedHosts) == 0 {
		c.Images.AllowedHosts = []string{
			"prod-files-secure.s3.amazonaws.com",
			"notion.so",
		}
	}
	if c.Images.RawHost == "" {
		c.Images.RawHost = "raw.githubusercontent.com"
	}
	if c.Images.Branch == "" {
		c.Images.Branch = "main"
	}
	if c.Images.Timeout == 0 {
		c.Images.Timeout = 30 * time.Second
	}
	if c.Git.Remote == "" {
		c.Git.Remote = "origin"
	}
	if c.Git.Branch == "" {
		c.Git.Branch = "main"
	}
	if c.Sync.StateFile == "" {
		c.Sync.StateFile = ".sync_state.json"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 30 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

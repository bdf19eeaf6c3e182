package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"newsreader/internal/domain"
)

type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Sync       SyncConfig       `yaml:"sync"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Sources    []SourceConfig   `yaml:"sources"`
	LogLevel   string           `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RabbitMQConfig configures the optional article event publisher.
// An empty URL disables publishing entirely.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type SyncConfig struct {
	Interval    time.Duration `yaml:"interval"`
	PassTimeout time.Duration `yaml:"pass_timeout"`
}

// EnrichmentConfig bounds the background content-extraction pipeline.
type EnrichmentConfig struct {
	Concurrency int           `yaml:"concurrency"`
	BatchDelay  time.Duration `yaml:"batch_delay"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
}

// SourceConfig describes a seed source inserted on first start.
type SourceConfig struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Kind            string        `yaml:"kind"` // "feed" or "selector-scrape"
	Locator         string        `yaml:"locator"`
	UpdateFrequency int           `yaml:"update_frequency_minutes"`
	Enabled         bool          `yaml:"enabled"`
	Scrape          *ScrapeConfig `yaml:"scrape,omitempty"`
}

type ScrapeConfig struct {
	ListSelector  string `yaml:"list_selector"`
	LinkSelector  string `yaml:"link_selector"`
	TitleSelector string `yaml:"title_selector,omitempty"`
}

// ToDomain converts a seed entry into the domain source model.
func (s SourceConfig) ToDomain() domain.Source {
	src := domain.Source{
		ID:              s.ID,
		Name:            s.Name,
		Kind:            domain.SourceKind(s.Kind),
		Locator:         s.Locator,
		UpdateFrequency: s.UpdateFrequency,
		Enabled:         s.Enabled,
	}
	if s.Scrape != nil {
		src.Scrape = &domain.ScrapeConfig{
			ListSelector:  s.Scrape.ListSelector,
			LinkSelector:  s.Scrape.LinkSelector,
			TitleSelector: s.Scrape.TitleSelector,
		}
	}
	return src
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

func (c *Config) setDefaults() {
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "newsreader"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "articles"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "reader_articles"
		}
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 30 * time.Minute
	}
	if c.Sync.PassTimeout == 0 {
		c.Sync.PassTimeout = 5 * time.Minute
	}
	if c.Enrichment.Concurrency == 0 {
		c.Enrichment.Concurrency = 3
	}
	if c.Enrichment.BatchDelay == 0 {
		c.Enrichment.BatchDelay = 500 * time.Millisecond
	}
	if c.Enrichment.TaskTimeout == 0 {
		c.Enrichment.TaskTimeout = 10 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.Sources) == 0 {
		c.Sources = defaultSources()
	}
}

func defaultSources() []SourceConfig {
	return []SourceConfig{
		{
			ID:              "hacker-news",
			Name:            "Hacker News",
			Kind:            string(domain.SourceKindFeed),
			Locator:         "https://news.ycombinator.com/rss",
			UpdateFrequency: 60,
			Enabled:         true,
		},
		{
			ID:              "techcrunch",
			Name:            "TechCrunch",
			Kind:            string(domain.SourceKindFeed),
			Locator:         "https://techcrunch.com/feed/",
			UpdateFrequency: 30,
			Enabled:         true,
		},
		{
			ID:              "ars-technica",
			Name:            "Ars Technica",
			Kind:            string(domain.SourceKindFeed),
			Locator:         "https://feeds.arstechnica.com/arstechnica/index",
			UpdateFrequency: 60,
			Enabled:         true,
		},
		{
			ID:              "the-verge",
			Name:            "The Verge",
			Kind:            string(domain.SourceKindFeed),
			Locator:         "https://www.theverge.com/rss/index.xml",
			UpdateFrequency: 30,
			Enabled:         true,
		},
	}
}

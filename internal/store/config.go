package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Config struct {
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date"`
	Cash        float64 `yaml:"cash"`
	Brokerage   string  `yaml:"brokerage"`
	AccountType string  `yaml:"account_type"`
	Resolution  string  `yaml:"resolution"`
	DataSource  string  `yaml:"data_source"`
	DataDir     string  `yaml:"data_dir"`
	History     struct {
		Skip       bool `yaml:"skip"`
		Days       int  `yaml:"days"`
		MinRecords int  `yaml:"min_records"`
	} `yaml:"history"`
	Static struct {
		RecordsPerDay int `yaml:"records_per_day"`
	} `yaml:"static"`
	LogDir           string `yaml:"log_dir"`
	LogRetentionDays int    `yaml:"log_retention_days"`
	Metrics          struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`

	start, end time.Time
}

// Start is the first simulated day, UTC midnight.
func (c *Config) Start() time.Time { return c.start }

// End is the last simulated day (inclusive), UTC midnight.
func (c *Config) End() time.Time { return c.end }

// applyDefaults fills zero values, so an explicit 0 in YAML also means the
// default. history.skip is the switch for turning the history check off.
func (c *Config) applyDefaults() {
	if c.StartDate == "" {
		c.StartDate = "2020-06-01"
	}
	if c.EndDate == "" {
		c.EndDate = "2020-06-05"
	}
	if c.Cash == 0 {
		c.Cash = 100000
	}
	if c.Brokerage == "" {
		c.Brokerage = "BITFINEX"
	}
	if c.AccountType == "" {
		c.AccountType = "CASH"
	}
	if c.Resolution == "" {
		c.Resolution = "DAILY"
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.History.Days == 0 {
		c.History.Days = 2
	}
	if c.History.MinRecords == 0 {
		c.History.MinRecords = 100
	}
	if c.Static.RecordsPerDay == 0 {
		c.Static.RecordsPerDay = 150
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
}

func (c *Config) Validate() error {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date '%s': %w", c.StartDate, err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date '%s': %w", c.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	if c.Cash <= 0 {
		return fmt.Errorf("cash must be positive, got %.2f", c.Cash)
	}
	if c.Brokerage != "BITFINEX" {
		return fmt.Errorf("invalid brokerage '%s': only 'BITFINEX' publishes a crypto universe", c.Brokerage)
	}
	if c.AccountType != "CASH" && c.AccountType != "MARGIN" {
		return fmt.Errorf("invalid account_type '%s': must be 'CASH' or 'MARGIN'", c.AccountType)
	}
	if c.Resolution != "DAILY" {
		return fmt.Errorf("invalid resolution '%s': universe data is only published 'DAILY'", c.Resolution)
	}
	switch c.DataSource {
	case "STATIC":
		if c.Static.RecordsPerDay < 0 {
			return fmt.Errorf("static.records_per_day must not be negative, got %d", c.Static.RecordsPerDay)
		}
	case "CSV":
		if c.DataDir == "" {
			return errors.New("data_dir is required when data_source is 'CSV'")
		}
	default:
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'CSV'", c.DataSource)
	}
	if c.History.Days < 0 || c.History.MinRecords < 0 {
		return fmt.Errorf("history.days and history.min_records must not be negative")
	}
	if c.LogRetentionDays < 0 {
		return fmt.Errorf("log_retention_days must not be negative, got %d", c.LogRetentionDays)
	}
	c.start, c.end = start.UTC(), end.UTC()
	return nil
}

// Default returns the configuration the strategy ships with.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	_ = c.Validate()
	return c
}

func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if v := os.Getenv("UNIVERSE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("UNIVERSE_LOG_DIR"); v != "" {
		c.LogDir = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

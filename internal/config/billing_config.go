package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BillingConfig represents the billing configuration file
type BillingConfig struct {
	Invoice   InvoiceConfig   `toml:"invoice"`
	Documents DocumentsConfig `toml:"documents"`
	Jobs      JobsConfig      `toml:"jobs"`
}

// InvoiceConfig contains invoice numbering and due date defaults
type InvoiceConfig struct {
	NumberPrefix   string `toml:"number_prefix"`
	DefaultDueDays int    `toml:"default_due_days"`
}

// DocumentsConfig contains settings for rendered invoice PDFs
type DocumentsConfig struct {
	Bucket            string `toml:"bucket"`
	PresignExpiryMins int    `toml:"presign_expiry_minutes"`
}

// JobsConfig contains background job settings
type JobsConfig struct {
	OverdueSweepCron string `toml:"overdue_sweep_cron"`
	Concurrency      int    `toml:"concurrency"`
}

// DefaultBillingConfig returns the configuration used when no file is given.
func DefaultBillingConfig() *BillingConfig {
	return &BillingConfig{
		Invoice: InvoiceConfig{
			NumberPrefix:   "INV",
			DefaultDueDays: 30,
		},
		Documents: DocumentsConfig{
			Bucket:            "invoices",
			PresignExpiryMins: 60,
		},
		Jobs: JobsConfig{
			OverdueSweepCron: "0 1 * * *",
			Concurrency:      5,
		},
	}
}

// LoadBillingConfig reads a TOML billing configuration file, falling back to
// defaults for any section the file omits.
func LoadBillingConfig(path string) (*BillingConfig, error) {
	cfg := DefaultBillingConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("billing config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse billing config %s: %w", path, err)
	}
	if cfg.Invoice.DefaultDueDays <= 0 {
		return nil, fmt.Errorf("billing config: default_due_days must be positive")
	}
	return cfg, nil
}

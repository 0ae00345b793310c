package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookkeeper/internal/flagx"
	"github.com/dmitrijs2005/bookkeeper/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
type JSONConfig struct {
	ServerURL           string         `json:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.ServerURL != "" {
		cfg.ServerURL = c.ServerURL
	}
	if c.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	return nil
}

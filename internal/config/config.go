package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		ScanSeconds int `yaml:"scan_seconds"`
		// CleanupDays is the retention window for untouched jobs; 0 keeps
		// everything.
		CleanupDays int `yaml:"cleanup_days"`
	} `yaml:"polling"`

	Feeds struct {
		Enabled      bool     `yaml:"enabled"`
		URLs         []string `yaml:"urls"`
		LookbackDays int      `yaml:"lookback_days"`
	} `yaml:"feeds"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
		// KeyringAccount is the OS keychain account holding the IMAP
		// password. Passwords never live in this file.
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"email"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

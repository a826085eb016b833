package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.Polling.ScanSeconds = 300
	cfg.Feeds.Enabled = true
	cfg.Feeds.URLs = []string{"https://weworkremotely.com/categories/remote-programming-jobs.rss"}
	cfg.Feeds.LookbackDays = 7
	return cfg
}

func TestNormalizeAndValidateOK(t *testing.T) {
	_, res := NormalizeAndValidate(baseConfig())
	assert.True(t, res.OK(), "errors: %v", res.Errors)
}

func TestNormalizeTrimsAndDedups(t *testing.T) {
	cfg := baseConfig()
	cfg.Feeds.URLs = []string{
		" https://weworkremotely.com/a.rss ",
		"https://weworkremotely.com/a.rss",
		"",
	}
	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), "errors: %v", res.Errors)
	assert.Equal(t, []string{"https://weworkremotely.com/a.rss"}, out.Feeds.URLs)
}

func TestValidateRejectsBadPortAndInterval(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Port = 0
	cfg.Polling.ScanSeconds = 0

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Len(t, res.Errors, 2)
}

func TestValidateFeedsNeedURLs(t *testing.T) {
	cfg := baseConfig()
	cfg.Feeds.URLs = nil

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestValidateFeedURLsMustBeAbsolute(t *testing.T) {
	cfg := baseConfig()
	cfg.Feeds.URLs = []string{"weworkremotely.com/a.rss"}

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestValidateEmailRequirements(t *testing.T) {
	cfg := baseConfig()
	cfg.Email.Enabled = true

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK(), "host, port and username are required")

	cfg.Email.IMAPHost = "imap.gmail.com"
	cfg.Email.IMAPPort = 993
	cfg.Email.Username = "me@example.com"
	_, res = NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), "errors: %v", res.Errors)
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := baseConfig()
	cfg.Email.Username = "me@example.com"

	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Port, loaded.App.Port)
	assert.Equal(t, cfg.Feeds.URLs, loaded.Feeds.URLs)
	assert.Equal(t, "me@example.com", loaded.Email.Username)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := baseConfig()
	cfg.App.Port = -1

	assert.Error(t, SaveAtomic(path, cfg))
}

func TestEnsureUserConfigCopiesDefault(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, SaveAtomic(defaultPath, baseConfig()))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	loaded, err := Load(userPath)
	require.NoError(t, err)
	assert.Equal(t, 38471, loaded.App.Port)

	// second call leaves the user copy alone
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// StalePolicy decides what happens to a fetch result that resolves after a
// newer fetch was issued.
type StalePolicy string

const (
	// StaleDrop applies only the most recently issued fetch.
	StaleDrop StalePolicy = "drop"
	// StaleApply applies every result as it resolves; the last to resolve wins.
	StaleApply StalePolicy = "apply"
)

// Config captures the runtime settings for lunchbox.
type Config struct {
	APIBase        string
	RequestTimeout time.Duration // zero disables the timeout
	StaleResults   StalePolicy
	SessionDir     string
	SessionID      string
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath = "~/.config/lunchbox/config.toml"
	defaultAPIBase    = "https://www.themealdb.com/api/json/v1/1/"
	defaultLogFile    = "~/.local/state/lunchbox/lunchbox.log"
	defaultLogLevel   = "info"

	sessionEnv = "LUNCHBOX_SESSION"
)

// Load locates and parses the lunchbox config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string  `toml:"api_base"`
		RequestTimeout string  `toml:"request_timeout"`
		StaleResults   string  `toml:"stale_results"`
		SessionDir     string  `toml:"session_dir"`
		SessionID      string  `toml:"session_id"`
		LogFile        *string `toml:"log_file"`
		LogLevel       string  `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("parse config: invalid request_timeout %q", raw.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}
	switch StalePolicy(strings.ToLower(strings.TrimSpace(raw.StaleResults))) {
	case "":
	case StaleDrop:
		cfg.StaleResults = StaleDrop
	case StaleApply:
		cfg.StaleResults = StaleApply
	default:
		return Config{}, fmt.Errorf("parse config: invalid stale_results %q", raw.StaleResults)
	}
	if v := strings.TrimSpace(raw.SessionDir); v != "" {
		cfg.SessionDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.SessionID); v != "" {
		cfg.SessionID = v
	}
	if raw.LogFile != nil {
		// An explicit empty log_file disables file logging.
		cfg.LogFile = strings.TrimSpace(*raw.LogFile)
		if cfg.LogFile != "" {
			cfg.LogFile = mustExpand(cfg.LogFile)
		}
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBase:      defaultAPIBase,
		StaleResults: StaleDrop,
		SessionDir:   defaultSessionDir(),
		SessionID:    defaultSessionID(),
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
	}
}

// defaultSessionDir prefers XDG_RUNTIME_DIR, which the login manager wipes when
// the user session ends.
func defaultSessionDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "lunchbox")
	}
	return filepath.Join(os.TempDir(), "lunchbox-"+strconv.Itoa(os.Getuid()))
}

// defaultSessionID ties favorites to the invoking shell unless overridden.
func defaultSessionID() string {
	if id := strings.TrimSpace(os.Getenv(sessionEnv)); id != "" {
		return id
	}
	return strconv.Itoa(os.Getppid())
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

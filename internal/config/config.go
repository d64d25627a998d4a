package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

// Config is the root configuration for worklog, stored in
// ~/.worklog/config.json. The file supports single-line // comments for
// documentation purposes. WORKLOG_* environment variables override it.
type Config struct {
	// Ledger is the CSV punch ledger. A leading ~/ expands to the home directory.
	Ledger string `json:"ledger" env:"WORKLOG_LEDGER"`
	// WeekStartDay names the first day of the summary week.
	WeekStartDay string `json:"week_start" env:"WORKLOG_WEEK_START"`
	// RoundingSpec rounds each day's total in summaries. Empty disables it.
	RoundingSpec string `json:"rounding" env:"WORKLOG_ROUNDING"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string        `json:"log_level" env:"WORKLOG_LOG_LEVEL"`
	Outlook  OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id" env:"WORKLOG_OUTLOOK_TENANT_ID"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id" env:"WORKLOG_OUTLOOK_CLIENT_ID"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone" env:"WORKLOG_OUTLOOK_TIMEZONE"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultWeekStart is the day summaries count the week from.
	DefaultWeekStart = "saturday"
	// DefaultLogLevel keeps diagnostics quiet unless something goes wrong.
	DefaultLogLevel = "warn"
)

// defaultConfig returns a Config pre-filled with defaults. Ledger stays empty
// until applyDefaults resolves the home directory.
func defaultConfig() Config {
	return Config{
		WeekStartDay: DefaultWeekStart,
		LogLevel:     DefaultLogLevel,
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// worklog configuration – ~/.worklog/config.json
//
// All settings are optional. Every value can also be set through a
// WORKLOG_* environment variable or in ~/.worklog/.env.
{
  // Punch ledger file. Empty means ~/.worklog.csv.
  "ledger": "",

  // First day of the week for "worklog summary" (sunday … saturday).
  "week_start": "saturday",

  // Rounding applied to each day's total, e.g. "+15m" (up), "-30m" (down),
  // "=1h" (half). Empty disables rounding.
  "rounding": "",

  // Diagnostic log level on stderr: debug, info, warn or error.
  "log_level": "warn",

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use UTC. Can be overridden with: worklog outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// Dir returns the configuration directory, ~/.worklog.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".worklog"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the configuration from ~/.worklog.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFrom(dir)
}

// LoadFrom reads dir/config.json, creating it with annotated defaults on first
// run, then overlays dir/.env and the process environment.
func LoadFrom(dir string) (Config, error) {
	path := filepath.Join(dir, "config.json")
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, errors.Wrapf(err, "reading config file %s", path)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return defaultConfig(), errors.Wrapf(err, "parsing config file %s\nTip: delete the file to regenerate defaults", path)
		}
	}

	dotenv := filepath.Join(dir, ".env")
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		return cfg, errors.Wrapf(err, "loading %s", dotenv)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing WORKLOG_* environment")
	}

	if err := cfg.applyDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func (c *Config) applyDefaults() error {
	if c.WeekStartDay == "" {
		c.WeekStartDay = DefaultWeekStart
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}

	if c.Ledger == "" {
		p, err := ledger.DefaultPath()
		if err != nil {
			return err
		}
		c.Ledger = p
		return nil
	}
	if rest, ok := strings.CutPrefix(c.Ledger, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "cannot determine home directory")
		}
		c.Ledger = filepath.Join(home, rest)
	}
	return nil
}

// WeekStart parses WeekStartDay.
func (c Config) WeekStart() (time.Weekday, error) {
	return timecalc.ParseWeekday(c.WeekStartDay)
}

// Rounding parses RoundingSpec. An empty spec means no rounding.
func (c Config) Rounding() (timecalc.Rounding, error) {
	if strings.TrimSpace(c.RoundingSpec) == "" {
		return timecalc.NoRounding, nil
	}
	r, err := timeexpr.ParseRounding(c.RoundingSpec)
	if err != nil {
		return timecalc.NoRounding, errors.Wrap(err, "config rounding")
	}
	return r, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return errors.Wrap(err, "writing default config")
	}
	return nil
}

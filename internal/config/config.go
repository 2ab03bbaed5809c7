// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Cookies  CookiesConfig  `toml:"cookies"`
	Download DownloadConfig `toml:"download"`
	YtDlp    YtDlpConfig    `toml:"ytdlp"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
}

type CookiesConfig struct {
	// Store is the browser profile's cookie database, e.g.
	// ".../Google/Chrome/Profile 2/Cookies".
	Store   string `toml:"store"`
	Browser string `toml:"browser"`
	Jar     string `toml:"jar"`
}

type DownloadConfig struct {
	Root              string `toml:"root"`
	Proxy             string `toml:"proxy"`
	OutputTemplate    string `toml:"output_template"`
	AudioQuality      int    `toml:"audio_quality"`
	GroupByUploader   bool   `toml:"group_by_uploader"`
	CheckAvailability bool   `toml:"check_availability"`
}

type YtDlpConfig struct {
	Executable string `toml:"executable"`
}

type HistoryConfig struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Defaults applied when a field is left empty.
const (
	DefaultBrowser        = "chrome"
	DefaultJarPath        = "./youtube_cookies.txt"
	DefaultDownloadRoot   = "./downloads"
	DefaultOutputTemplate = "%(title)s.%(ext)s"
	DefaultLogLevel       = "info"
)

// Environment variables that override file values.
const (
	EnvCookieStore = "YTJAR_COOKIE_STORE"
	EnvBrowser     = "YTJAR_BROWSER"
	EnvCookieJar   = "YTJAR_COOKIE_JAR"
	EnvOutputDir   = "YTJAR_OUTPUT_DIR"
	EnvProxy       = "YTJAR_PROXY"
)

// Load reads, parses and validates the configuration.
// An empty path skips the file and builds the config from environment
// variables and defaults alone.
// Returns *Error for unresolved ${VAR} references or validation failures.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Path: path, Errors: errs}
	}

	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration without running
// Validate. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}

		content, missing := substituteEnvVars(string(data))
		if len(missing) > 0 {
			return nil, &Error{Path: path, Missing: missing}
		}

		if err := decode(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// decode parses TOML and rejects keys that do not map to a field, so a
// typo like "proxi" is reported instead of silently ignored.
func decode(content string, cfg *Config) error {
	md, err := toml.Decode(content, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvCookieStore); ok {
		c.Cookies.Store = v
	}
	if v, ok := os.LookupEnv(EnvBrowser); ok {
		c.Cookies.Browser = v
	}
	if v, ok := os.LookupEnv(EnvCookieJar); ok {
		c.Cookies.Jar = v
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		c.Download.Root = v
	}
	if v, ok := os.LookupEnv(EnvProxy); ok {
		c.Download.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	c.Cookies.Store = strings.TrimSpace(c.Cookies.Store)
	c.Cookies.Browser = strings.ToLower(strings.TrimSpace(c.Cookies.Browser))
	if c.Cookies.Browser == "" {
		c.Cookies.Browser = DefaultBrowser
	}
	if strings.TrimSpace(c.Cookies.Jar) == "" {
		c.Cookies.Jar = DefaultJarPath
	}
	if strings.TrimSpace(c.Download.Root) == "" {
		c.Download.Root = DefaultDownloadRoot
	}
	// Whitespace-only proxy means unset.
	c.Download.Proxy = strings.TrimSpace(c.Download.Proxy)
	if c.Download.OutputTemplate == "" {
		c.Download.OutputTemplate = DefaultOutputTemplate
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	for _, p := range []*string{&c.Cookies.Store, &c.Cookies.Jar, &c.Download.Root, &c.History.Path, &c.YtDlp.Executable} {
		*p = expandHome(*p)
	}
}

// expandHome replaces a leading "~/" with the user's home directory. Other
// forms such as "~user/" are left alone.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment variable references.
// Unresolved references are left unchanged and reported in missing.
// For ${VAR:?msg} the missing entry is "VAR: msg".
func substituteEnvVars(content string) (string, []string) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, arg))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})

	return result, missing
}

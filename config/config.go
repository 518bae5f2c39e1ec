package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tubescribe/scribe"
)

// DefaultFile is read when no path is given and TUBESCRIBE_CONFIG is unset.
const DefaultFile = "tubescribe.yaml"

type Config struct {
	BaseURL    string            `yaml:"base_url"`
	Headless   bool              `yaml:"headless"`
	BrowserBin string            `yaml:"browser_bin"`
	MaxResults int               `yaml:"max_results"`
	LogLevel   string            `yaml:"log_level"`
	Schedule   string            `yaml:"schedule"`
	Locators   map[string]string `yaml:"locators"`
	HeaderTag  string            `yaml:"section_header_tag"`
	Timeouts   TimeoutConfig     `yaml:"timeouts"`
	Pauses     PauseConfig       `yaml:"pauses"`
}

type TimeoutConfig struct {
	Consent          time.Duration `yaml:"consent"`
	SearchBox        time.Duration `yaml:"search_box"`
	Results          time.Duration `yaml:"results"`
	VideoTitle       time.Duration `yaml:"video_title"`
	Mute             time.Duration `yaml:"mute"`
	Expand           time.Duration `yaml:"expand"`
	TranscriptButton time.Duration `yaml:"transcript_button"`
	Segments         time.Duration `yaml:"segments"`
	OpenTab          time.Duration `yaml:"open_tab"`
}

type PauseConfig struct {
	AfterConsent []time.Duration `yaml:"after_consent"`
	AfterVideo   []time.Duration `yaml:"after_video"`
}

// Load reads .env, then the yaml file at path, then environment overrides.
// An explicitly named file must exist; the default one is optional.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("TUBESCRIBE_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TUBESCRIBE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TUBESCRIBE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TUBESCRIBE_BROWSER_BIN"); v != "" {
		c.BrowserBin = v
	}
	if v := os.Getenv("TUBESCRIBE_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TUBESCRIBE_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = scribe.DefaultBaseURL
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Schedule == "" {
		c.Schedule = "@hourly"
	}
	if c.HeaderTag == "" {
		c.HeaderTag = scribe.DefaultSectionHeaderTag
	}
}

func (c *Config) validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be at least 1, got %d", c.MaxResults)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for role := range c.Locators {
		if !knownRole(scribe.Role(role)) {
			return fmt.Errorf("unknown locator role %q", role)
		}
	}
	if _, err := c.locators(); err != nil {
		return err
	}
	for name, span := range map[string][]time.Duration{
		"after_consent": c.Pauses.AfterConsent,
		"after_video":   c.Pauses.AfterVideo,
	} {
		if _, err := toSpan(span); err != nil {
			return fmt.Errorf("pauses.%s: %w", name, err)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Options converts the config to pipeline options.
func (c *Config) Options() (scribe.Options, error) {
	locs, err := c.locators()
	if err != nil {
		return scribe.Options{}, err
	}
	pauses := scribe.DefaultPauses()
	if s, err := toSpan(c.Pauses.AfterConsent); err != nil {
		return scribe.Options{}, err
	} else if s != nil {
		pauses.AfterConsent = *s
	}
	if s, err := toSpan(c.Pauses.AfterVideo); err != nil {
		return scribe.Options{}, err
	} else if s != nil {
		pauses.AfterVideo = *s
	}

	t := c.Timeouts
	return scribe.Options{
		BaseURL:          c.BaseURL,
		Locators:         locs,
		SectionHeaderTag: c.HeaderTag,
		Timeouts: scribe.Timeouts{
			Consent:          t.Consent,
			SearchBox:        t.SearchBox,
			Results:          t.Results,
			VideoTitle:       t.VideoTitle,
			Mute:             t.Mute,
			Expand:           t.Expand,
			TranscriptButton: t.TranscriptButton,
			Segments:         t.Segments,
		},
		Pauses: &pauses,
	}, nil
}

func (c *Config) locators() (scribe.Locators, error) {
	locs := scribe.Locators{}
	for role, raw := range c.Locators {
		loc, err := scribe.ParseLocator(raw)
		if err != nil {
			return nil, fmt.Errorf("locator %s: %w", role, err)
		}
		locs[scribe.Role(role)] = loc
	}
	return locs, nil
}

func knownRole(r scribe.Role) bool {
	for _, known := range scribe.Roles {
		if r == known {
			return true
		}
	}
	return false
}

// toSpan reads a [min, max] pair. A single value is a fixed pause.
func toSpan(v []time.Duration) (*scribe.Span, error) {
	switch len(v) {
	case 0:
		return nil, nil
	case 1:
		return &scribe.Span{Min: v[0], Max: v[0]}, nil
	case 2:
		if v[1] < v[0] {
			return nil, fmt.Errorf("max %s is below min %s", v[1], v[0])
		}
		return &scribe.Span{Min: v[0], Max: v[1]}, nil
	}
	return nil, fmt.Errorf("expected [min, max], got %d values", len(v))
}

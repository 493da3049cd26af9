// Package config loads the intervista configuration.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. an optional YAML file
//  3. an optional .env file (values only fill variables not already set)
//  4. INTERVISTA_* environment variables, e.g. INTERVISTA_API_BASE_URL
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/intervista/internal/logging"
	"github.com/aretw0/intervista/pkg/domain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INTERVISTA_"

// Config is the resolved configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Practice PracticeConfig `mapstructure:"practice" yaml:"practice"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Stub     StubConfig     `mapstructure:"stub" yaml:"stub"`
}

type APIConfig struct {
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
	ValidateResponses bool   `mapstructure:"validate_responses" yaml:"validate_responses"`
}

// AuthConfig lists the credential sources, tried in order: Token, TokenFile, Redis.
type AuthConfig struct {
	Token     string `mapstructure:"token" yaml:"token"`
	TokenFile string `mapstructure:"token_file" yaml:"token_file"`
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisKey  string `mapstructure:"redis_key" yaml:"redis_key"`
	// TokenKey is a base64 AES-256 key; when set, stored tokens are encrypted.
	TokenKey string `mapstructure:"token_key" yaml:"token_key"`
}

type PracticeConfig struct {
	JobRole  string        `mapstructure:"job_role" yaml:"job_role"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type MetricsConfig struct {
	// Addr enables a /metrics listener when set (e.g. ":9090").
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type StubConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// Bank is an optional YAML question bank replacing the embedded one.
	Bank string `mapstructure:"bank" yaml:"bank"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api/",
		},
		Practice: PracticeConfig{
			JobRole: domain.DefaultJobRoleTitle,
		},
		Log: LogConfig{
			Level: "info",
		},
		Stub: StubConfig{
			Addr: ":8000",
		},
	}
}

// Options selects the files Load reads. Empty paths are skipped.
type Options struct {
	File    string
	EnvFile string
	// Environ overrides os.Environ (for tests).
	Environ []string
}

// Load resolves the configuration from all layers.
func Load(opts Options) (Config, error) {
	tree, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", opts.File, err)
		}
		merge(tree, file)
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	env := make(map[string]string)
	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file: %w", err)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	applyEnv(tree, env)

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(tree); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an http(s) URL", c.API.BaseURL))
	}
	if c.Practice.Debounce < 0 {
		errs = append(errs, errors.New("practice.debounce must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// toMap flattens a Config into the nested map the layers are merged into.
func toMap(cfg Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	// yaml renders durations as integers; keep them readable for the decode hook.
	if p, ok := m["practice"].(map[string]any); ok {
		p["debounce"] = cfg.Practice.Debounce.String()
	}
	return m, nil
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if d, ok := dst[k].(map[string]any); ok {
				merge(d, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// applyEnv maps INTERVISTA_SECTION_KEY onto tree[section][key]. The first
// underscore after the prefix separates the section.
func applyEnv(tree map[string]any, env map[string]string) {
	for k, v := range env {
		name, ok := strings.CutPrefix(k, EnvPrefix)
		if !ok {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(name), "_")
		if !ok {
			continue
		}
		sub, ok := tree[section].(map[string]any)
		if !ok {
			continue
		}
		if _, known := sub[key]; !known {
			continue
		}
		sub[key] = v
	}
}

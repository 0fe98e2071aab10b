package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override; "__" separates sections,
	// e.g. MODPATCH_EXECUTION__SINGLE_THREAD=true.
	EnvPrefix = "MODPATCH_"

	// EnvConfigFile points at an explicit config file
	EnvConfigFile = "MODPATCH_CONFIG"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions controls which layers LoadConfiguration applies
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set
	ConfigFile string
	// Overrides are applied last, keyed by dotted path ("execution.single_thread")
	Overrides map[string]interface{}

	SkipUserConfig bool
	SkipEnv        bool
}

// DefaultConfigPath returns the config file looked up when none is given.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "modpatch", "config.toml")
}

// LoadConfiguration layers defaults, config file, environment and overrides.
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. User config file
	if !opts.SkipUserConfig {
		path := opts.ConfigFile
		explicit := path != ""
		if !explicit {
			path = DefaultConfigPath()
		}
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

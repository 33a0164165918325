package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "MOVIESCOPE_"

// flagKeys maps flag names onto config keys where the two differ.
var flagKeys = map[string]string{
	"data": "data_path",
}

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
	envVarPattern  = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// findConfigFile returns explicit when set, otherwise the first of
// moviescope.yaml and moviescope.yml present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultConfigFile, "moviescope.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig clears loaded state between tests.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig layers defaults, the config file, MOVIESCOPE_ environment
// variables and changed flags, each overriding the one before it.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(Defaults()), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFileUsed = findConfigFile(cfgFile); configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg, err := decode()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = cfg
	return cfg, nil
}

func defaultValues(def *Config) map[string]any {
	return map[string]any{
		"data_path":            def.DataPath,
		"verbose":              def.Verbose,
		"output":               def.OutputFormat,
		"dataset.drop_columns": def.Dataset.DropColumns,
		"dataset.date_columns": def.Dataset.DateColumns,
		"dataset.top_n":        def.Dataset.TopN,
		"ui.port":              def.UI.Port,
		"ui.auto_open":         def.UI.AutoOpen,
		"ui.dev":               def.UI.Dev,
		"ui.page_size":         def.UI.PageSize,
		"ui.session_secret":    def.UI.SessionSecret,
		"ui.shutdown_timeout":  def.UI.ShutdownTimeout.String(),
	}
}

// flagKey maps changed flags onto config keys. Unchanged flags and --config
// contribute nothing so they never mask file or env values.
func flagKey(flags *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed || f.Name == "config" {
			return "", nil
		}
		if mapped, ok := flagKeys[f.Name]; ok {
			return mapped, posflag.FlagVal(flags, f)
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
}

func decode() (*Config, error) {
	cfg := &Config{}
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.DataPath = expandEnvVars(cfg.DataPath)
	cfg.UI.SessionSecret = expandEnvVars(cfg.UI.SessionSecret)
	return cfg, nil
}

// envKey maps MOVIESCOPE_UI__PORT to ui.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// GetConfigFileUsed returns the config file read by the last LoadConfig.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the result of the last successful LoadConfig.
func GetCurrentConfig() *Config {
	return currentConfig
}

// expandEnvVars substitutes ${VAR} with its value. Unset variables stay as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		if val, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok && val != "" {
			return val
		}
		return ref
	})
}

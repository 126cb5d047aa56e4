package report

import (
	"fmt"

	"github.com/dash-tools/report-atlas/pkg/services/parse"
	"github.com/dash-tools/report-atlas/pkg/services/validate"
	"github.com/spf13/viper"
)

// Config controls extraction behavior. All of it has working defaults;
// a config file only needs the values that differ.
type Config struct {
	Parser parse.Options `mapstructure:"parser"`
	// AllowedCategories restricts extraction to the listed categories.
	// Empty means every category is accepted.
	AllowedCategories    []string `mapstructure:"allowed_categories"`
	ConsistencyTolerance float64  `mapstructure:"consistency_tolerance"`
}

func DefaultConfig() Config {
	return Config{
		Parser:               parse.DefaultOptions(),
		ConsistencyTolerance: validate.DefaultTolerance,
	}
}

// LoadConfig reads extraction configuration from the given file, layered
// over the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse extraction config: %w", err)
	}
	return &config, nil
}

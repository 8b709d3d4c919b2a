package application

import (
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig overrides the database-backed view engine settings. Fields
// left unset fall through to the system-parameter store.
type EngineConfig struct {
	TagMatchPolicy    *int   `yaml:"tag_match_policy"`
	ShowValueWithText *bool  `yaml:"show_value_with_text"`
	HighAlarmPhrase   string `yaml:"high_alarm_phrase"`
	LowAlarmPhrase    string `yaml:"low_alarm_phrase"`
}

// LoadEngineConfig loads the optional yaml overlay named by ENGINE_CONFIG.
// An unset variable yields an empty config.
func LoadEngineConfig() (EngineConfig, error) {
	var cfg EngineConfig
	path := os.Getenv("ENGINE_CONFIG")
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

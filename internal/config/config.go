package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Light           LightConfig    `yaml:"light"`
	OSC             OSCConfig      `yaml:"osc"`
	Queue           QueueConfig    `yaml:"queue"`
	Database        DatabaseConfig `yaml:"database"`
	Scenes          ScenesConfig   `yaml:"scenes"`
	Log             LogConfig      `yaml:"log"`
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// LightConfig describes the strip and the render rate
type LightConfig struct {
	LEDCount int `yaml:"led_count"`
	FPS      int `yaml:"fps"`
}

// OSCConfig contains control protocol endpoints
type OSCConfig struct {
	ListenHost   string `yaml:"listen_host"`
	ListenPort   int    `yaml:"listen_port"`
	FeedbackHost string `yaml:"feedback_host"` // Receiver of frames and replies
	FeedbackPort int    `yaml:"feedback_port"`
}

// QueueConfig tunes the command queue between the network and render loops
type QueueConfig struct {
	Size       int `yaml:"size"`        // Max pending intents before drop-oldest
	DrainBatch int `yaml:"drain_batch"` // Max intents applied per tick
}

// DatabaseConfig contains snapshot database settings
type DatabaseConfig struct {
	Path             string   `yaml:"path"`
	AutosaveInterval Duration `yaml:"autosave_interval"` // 0 = disabled
}

// ScenesConfig points at an optional scenes file loaded at startup when no
// snapshot exists
type ScenesConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Colors bool   `yaml:"colors"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Light.LEDCount <= 0 {
		cfg.Light.LEDCount = 225
	}
	if cfg.Light.FPS <= 0 {
		cfg.Light.FPS = 60
	}

	if cfg.OSC.ListenHost == "" {
		cfg.OSC.ListenHost = "0.0.0.0"
	}
	if cfg.OSC.ListenPort == 0 {
		cfg.OSC.ListenPort = 9090
	}
	if cfg.OSC.FeedbackHost == "" {
		cfg.OSC.FeedbackHost = "127.0.0.1"
	}
	if cfg.OSC.FeedbackPort == 0 {
		cfg.OSC.FeedbackPort = 5005
	}

	if cfg.Queue.Size <= 0 {
		cfg.Queue.Size = 256
	}
	if cfg.Queue.DrainBatch <= 0 {
		cfg.Queue.DrainBatch = 128
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "./ledsignal.sqlite"
	}
	if cfg.Database.AutosaveInterval == 0 {
		cfg.Database.AutosaveInterval = Duration(30 * time.Second)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}

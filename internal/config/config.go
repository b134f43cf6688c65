package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Session     SessionConfig     `yaml:"session"`
	Speech      SpeechConfig      `yaml:"speech"`
	Translation TranslationConfig `yaml:"translation"`
	Synthesis   SynthesisConfig   `yaml:"synthesis"`
	Languages   []Language        `yaml:"languages"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig contains HTTP API server configuration
type ServerConfig struct {
	Port           int    `yaml:"port"`
	Address        string `yaml:"address"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// SessionConfig contains session store configuration
type SessionConfig struct {
	Backend       string `yaml:"backend"`
	TTL           int    `yaml:"ttl"` // seconds
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// SpeechConfig contains speech recognition configuration
type SpeechConfig struct {
	Provider           string   `yaml:"provider"`
	Endpoint           string   `yaml:"endpoint"`
	APIKey             string   `yaml:"api_key"`
	Timeout            int      `yaml:"timeout"` // seconds
	PrimaryLanguage    string   `yaml:"primary_language"`
	AlternateLanguages []string `yaml:"alternate_languages"`
}

// TranslationConfig contains translation model configuration
type TranslationConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// SynthesisConfig contains speech synthesis configuration
type SynthesisConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// Language is a translation target offered by the service
type Language struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides lets credentials come from the environment so they
// stay out of the config file.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Translation.APIKey = key
	}
	if key := os.Getenv("SPEECH_API_KEY"); key != "" {
		c.Speech.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.Speech.Provider == "openai" && c.Speech.APIKey == "" {
		c.Speech.APIKey = key
	}
}

func (c *Config) applyDefaults() {
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 16 << 20
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 1800
	}
	if c.Speech.Provider == "" {
		c.Speech.Provider = "google"
	}
	if c.Speech.Timeout == 0 {
		c.Speech.Timeout = 60
	}
	if c.Speech.PrimaryLanguage == "" {
		c.Speech.PrimaryLanguage = "en-US"
	}
	if len(c.Speech.AlternateLanguages) == 0 {
		c.Speech.AlternateLanguages = []string{"hi-IN", "es-ES", "es-MX", "fr-FR", "de-DE", "cmn-Hans-CN", "ja-JP"}
	}
	if c.Synthesis.Timeout == 0 {
		c.Synthesis.Timeout = 30
	}
	if len(c.Languages) == 0 {
		c.Languages = DefaultLanguages()
	}
}

// DefaultLanguages returns the built-in translation targets.
func DefaultLanguages() []Language {
	return []Language{
		{Name: "English", Code: "en"},
		{Name: "Hindi", Code: "hi"},
		{Name: "Spanish", Code: "es"},
		{Name: "French", Code: "fr"},
		{Name: "German", Code: "de"},
		{Name: "Chinese (Simplified)", Code: "zh-cn"},
		{Name: "Japanese", Code: "ja"},
	}
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	if err := c.Speech.Validate(); err != nil {
		return fmt.Errorf("speech config: %w", err)
	}

	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis config: %w", err)
	}

	for i, lang := range c.Languages {
		if lang.Name == "" || lang.Code == "" {
			return fmt.Errorf("languages[%d]: name and code cannot be empty", i)
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}

	if s.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if s.MaxUploadBytes < 1024 {
		return fmt.Errorf("max_upload_bytes must be at least 1024, got %d", s.MaxUploadBytes)
	}

	return nil
}

// Validate validates session store configuration
func (s *SessionConfig) Validate() error {
	switch s.Backend {
	case "memory":
	case "redis":
		if s.RedisAddr == "" {
			return fmt.Errorf("redis_addr cannot be empty when backend is 'redis'")
		}
	default:
		return fmt.Errorf("backend must be 'memory' or 'redis', got '%s'", s.Backend)
	}

	if s.TTL < 1 {
		return fmt.Errorf("ttl must be at least 1 second, got %d", s.TTL)
	}

	return nil
}

// Validate validates speech recognition configuration. The API key is
// deliberately not required: a missing key disables transcription while
// the rest of the service keeps running.
func (s *SpeechConfig) Validate() error {
	validProviders := map[string]bool{"google": true, "openai": true}
	if !validProviders[s.Provider] {
		return fmt.Errorf("provider must be 'google' or 'openai', got '%s'", s.Provider)
	}

	if s.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
	}

	if s.PrimaryLanguage == "" {
		return fmt.Errorf("primary_language cannot be empty")
	}

	return nil
}

// Validate validates speech synthesis configuration
func (s *SynthesisConfig) Validate() error {
	if s.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// Language finds a configured language by its display name,
// case-insensitively.
func (c *Config) Language(name string) (Language, bool) {
	for _, lang := range c.Languages {
		if strings.EqualFold(lang.Name, name) {
			return lang, true
		}
	}
	return Language{}, false
}

// GetTTLDuration returns the session TTL as a time.Duration
func (s *SessionConfig) GetTTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// GetTimeoutDuration returns the recognition timeout as a time.Duration
func (s *SpeechConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// GetTimeoutDuration returns the synthesis timeout as a time.Duration
func (s *SynthesisConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

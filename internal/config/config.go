// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/morkalg/MUTHERSHIP/internal/llm"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
	"github.com/morkalg/MUTHERSHIP/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete muthership configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Model    ModelConfig    `toml:"model" json:"model"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Scenario ScenarioConfig `toml:"scenario" json:"scenario"`
	Security SecurityConfig `toml:"security" json:"security"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
}

// ModelConfig selects the model provider answering player queries.
type ModelConfig struct {
	// Provider is auto, gemini, openai, anthropic, ollama or local.
	Provider string `toml:"provider" json:"provider"`

	// Name overrides the model for whichever provider is selected.
	Name string `toml:"name,omitempty" json:"name,omitempty"`

	GeminiModel    string `toml:"gemini_model" json:"gemini_model"`
	OpenAIModel    string `toml:"openai_model" json:"openai_model"`
	OpenAIBaseURL  string `toml:"openai_base_url,omitempty" json:"openai_base_url,omitempty"`
	AnthropicModel string `toml:"anthropic_model" json:"anthropic_model"`
	OllamaURL      string `toml:"ollama_url" json:"ollama_url"`
	OllamaModel    string `toml:"ollama_model" json:"ollama_model"`

	// TimeoutSecs bounds one query. 0 disables the limit.
	TimeoutSecs int   `toml:"timeout_secs" json:"timeout_secs"`
	MaxTokens   int64 `toml:"max_tokens" json:"max_tokens"`

	// API keys. Environment variables take precedence.
	GeminiKey    string `toml:"gemini_key,omitempty" json:"gemini_key,omitempty"`
	OpenAIKey    string `toml:"openai_key,omitempty" json:"openai_key,omitempty"`
	AnthropicKey string `toml:"anthropic_key,omitempty" json:"anthropic_key,omitempty"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	Theme             string `toml:"theme" json:"theme"`
	Operator          bool   `toml:"operator" json:"operator"`
	ShowOperatorPanel bool   `toml:"show_operator_panel" json:"show_operator_panel"`
	Markdown          bool   `toml:"markdown" json:"markdown"`
	TypingDelayMs     int    `toml:"typing_delay_ms" json:"typing_delay_ms"`
	Greeting          string `toml:"greeting,omitempty" json:"greeting,omitempty"`
}

// ScenarioConfig points at the scenario file loaded at startup.
type ScenarioConfig struct {
	// Path to a .toml or .yaml scenario. Empty uses the built-in scenario.
	Path  string `toml:"path" json:"path"`
	Watch bool   `toml:"watch" json:"watch"`
}

// SecurityConfig holds in-fiction terminal security settings.
type SecurityConfig struct {
	// IdleLogoutSecs secures the terminal after inactivity. 0 disables it.
	IdleLogoutSecs int `toml:"idle_logout_secs" json:"idle_logout_secs"`
}

// LoggingConfig controls the diagnostic log file.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "muthership.log")
	}
	return &Config{
		Version: "1",
		Model: ModelConfig{
			Provider:       llm.ProviderAuto,
			GeminiModel:    llm.DefaultGeminiModel,
			OpenAIModel:    llm.DefaultOpenAIModel,
			AnthropicModel: llm.DefaultAnthropicModel,
			OllamaURL:      "http://127.0.0.1:11434",
			OllamaModel:    llm.DefaultOllamaModel,
			TimeoutSecs:    120,
			MaxTokens:      1024,
		},
		UI: UIConfig{
			Theme:         styles.DefaultTheme,
			Operator:      true,
			Markdown:      false,
			TypingDelayMs: 15,
		},
		Security: SecurityConfig{
			IdleLogoutSecs: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  logFile,
		},
	}
}

// QueryTimeout returns the per-query timeout, or 0 when unlimited.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSecs) * time.Second
}

// TypingDelay returns the offline substitute's delay between fragments.
func (c *Config) TypingDelay() time.Duration {
	return time.Duration(c.UI.TypingDelayMs) * time.Millisecond
}

// IdleLogout returns the idle logout period, or 0 when disabled.
func (c *Config) IdleLogout() time.Duration {
	return time.Duration(c.Security.IdleLogoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the muthership configuration directory path.
// MUTHERSHIP_HOME overrides the default of ~/.muthership.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MUTHERSHIP_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".muthership"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryPath returns the line mode history file path.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "line_history"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files may hold API keys and must be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. A .env file in
// the working directory is read before environment overrides are applied.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if err := LoadDotEnv(".env"); err != nil {
		loadErr = err
	}

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = fmt.Errorf("failed to load JSON config: %w", err)
					cfg = Default()
				}
			}
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Fields absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies environment overrides, migration, defaults and validation.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# muthership configuration file\n")
	sb.WriteString("# Generated by muthership - edit with care\n")
	sb.WriteString("#\n")
	sb.WriteString("# API keys are better kept in GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY.\n")
	sb.WriteString("\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Model Settings Validation
	// ==========================================================================

	if !contains(llm.Providers(), strings.ToLower(c.Model.Provider)) {
		errs = append(errs, ValidationError{
			Field:   "model.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: %s", c.Model.Provider, strings.Join(llm.Providers(), ", ")),
		})
	}

	if err := validateHTTPURL(c.Model.OllamaURL); err != nil {
		errs = append(errs, ValidationError{Field: "model.ollama_url", Message: err.Error()})
	}
	if c.Model.OpenAIBaseURL != "" {
		if err := validateHTTPURL(c.Model.OpenAIBaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "model.openai_base_url", Message: err.Error()})
		}
	}

	if c.Model.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "model.timeout_secs",
			Message: fmt.Sprintf("must not be negative, got %d", c.Model.TimeoutSecs),
		})
	}
	if c.Model.MaxTokens < 1 || c.Model.MaxTokens > 65536 {
		errs = append(errs, ValidationError{
			Field:   "model.max_tokens",
			Message: fmt.Sprintf("must be between 1 and 65536, got %d", c.Model.MaxTokens),
		})
	}

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	if !styles.HasTheme(c.UI.Theme) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(styles.ThemeNames(), ", ")),
		})
	}
	if c.UI.TypingDelayMs < 0 || c.UI.TypingDelayMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.typing_delay_ms",
			Message: fmt.Sprintf("must be between 0 and 1000, got %d", c.UI.TypingDelayMs),
		})
	}

	// ==========================================================================
	// Scenario, Security, Logging Validation
	// ==========================================================================

	if c.Scenario.Path != "" {
		switch strings.ToLower(filepath.Ext(c.Scenario.Path)) {
		case ".toml", ".yaml", ".yml":
		default:
			errs = append(errs, ValidationError{
				Field:   "scenario.path",
				Message: fmt.Sprintf("unsupported scenario format '%s', must be .toml, .yaml or .yml", c.Scenario.Path),
			})
		}
	}

	if c.Security.IdleLogoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "security.idle_logout_secs",
			Message: fmt.Sprintf("must not be negative, got %d", c.Security.IdleLogoutSecs),
		})
	}

	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: %s", c.Logging.Level, strings.Join(validLogLevels, ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL '%s': %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL '%s', scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL '%s', missing host", raw)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Model.Provider == "" {
		c.Model.Provider = defaults.Model.Provider
	}
	if c.Model.GeminiModel == "" {
		c.Model.GeminiModel = defaults.Model.GeminiModel
	}
	if c.Model.OpenAIModel == "" {
		c.Model.OpenAIModel = defaults.Model.OpenAIModel
	}
	if c.Model.AnthropicModel == "" {
		c.Model.AnthropicModel = defaults.Model.AnthropicModel
	}
	if c.Model.OllamaURL == "" {
		c.Model.OllamaURL = defaults.Model.OllamaURL
	}
	if c.Model.OllamaModel == "" {
		c.Model.OllamaModel = defaults.Model.OllamaModel
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = defaults.Model.MaxTokens
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = defaults.Logging.File
	}
}

// Migrate normalizes older or loosely written values.
func (c *Config) Migrate() error {
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	// "google" was accepted before the provider was renamed.
	if c.Model.Provider == "google" {
		c.Model.Provider = llm.ProviderGemini
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	c.Model.OllamaURL = strings.TrimRight(c.Model.OllamaURL, "/")
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MUTHERSHIP_PROVIDER: overrides model.provider
//   - MUTHERSHIP_MODEL: overrides model.name
//   - MUTHERSHIP_THEME: overrides ui.theme
//   - MUTHERSHIP_SCENARIO: overrides scenario.path
//   - MUTHERSHIP_LOG_LEVEL: overrides logging.level
//   - MUTHERSHIP_OLLAMA_URL: overrides model.ollama_url
//   - GEMINI_API_KEY (or API_KEY): overrides model.gemini_key
//   - OPENAI_API_KEY: overrides model.openai_key
//   - ANTHROPIC_API_KEY: overrides model.anthropic_key
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MUTHERSHIP_PROVIDER"); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv("MUTHERSHIP_MODEL"); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv("MUTHERSHIP_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("MUTHERSHIP_SCENARIO"); v != "" {
		c.Scenario.Path = v
	}
	if v := os.Getenv("MUTHERSHIP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MUTHERSHIP_OLLAMA_URL"); v != "" {
		c.Model.OllamaURL = v
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Model.GeminiKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		c.Model.GeminiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Model.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Model.AnthropicKey = v
	}
}

// =============================================================================
// PROVIDER CONFIG
// =============================================================================

// LLMConfig converts the model section into a provider factory config.
// Model.Name, when set, replaces the model of every provider.
func (c *Config) LLMConfig() llm.Config {
	m := c.Model
	if m.Name != "" {
		m.GeminiModel = m.Name
		m.OpenAIModel = m.Name
		m.AnthropicModel = m.Name
		m.OllamaModel = m.Name
	}
	return llm.Config{
		Provider:       m.Provider,
		GeminiKey:      m.GeminiKey,
		GeminiModel:    m.GeminiModel,
		OpenAIKey:      m.OpenAIKey,
		OpenAIModel:    m.OpenAIModel,
		OpenAIBaseURL:  m.OpenAIBaseURL,
		AnthropicKey:   m.AnthropicKey,
		AnthropicModel: m.AnthropicModel,
		MaxTokens:      m.MaxTokens,
		OllamaURL:      m.OllamaURL,
		OllamaModel:    m.OllamaModel,
		Local:          llm.LocalConfig{Delay: c.TypingDelay()},
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks key through the struct by TOML tag name.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every configuration key in dot notation.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := strings.Split(f.Tag.Get("toml"), ",")[0]
			if tag == "" || tag == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+tag+".")
				continue
			}
			keys = append(keys, prefix+tag)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a copy of the configuration. Config holds no reference
// types, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Redacted returns a copy with API keys masked.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	for _, key := range []*string{&safe.Model.GeminiKey, &safe.Model.OpenAIKey, &safe.Model.AnthropicKey} {
		if *key != "" {
			*key = "[REDACTED]"
		}
	}
	return safe
}

// String returns a TOML representation with API keys redacted.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return sb.String()
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "asf_benev_config.yaml"

// RosterConfig points at the Google Sheets roster used by the volunteer
// import. Empty when imports only come from CSV files.
type RosterConfig struct {
	SheetID string `yaml:"sheetID,omitempty"`
	Tab     string `yaml:"tab,omitempty"`
}

// GmailConfig identifies the account invitations are sent from.
type GmailConfig struct {
	UserID string `yaml:"userID,omitempty" validate:"omitempty,email"`
	Sender string `yaml:"sender,omitempty" validate:"omitempty,email"`
}

// InvitationConfig shapes the signup links in invitation emails.
type InvitationConfig struct {
	Domain   string `yaml:"domain,omitempty"`
	Protocol string `yaml:"protocol,omitempty" validate:"omitempty,oneof=http https"`
	Subject  string `yaml:"subject,omitempty"`
}

// Config represents the application configuration.
type Config struct {
	ListenAddr        string           `yaml:"listenAddr,omitempty"`
	DatabaseURL       string           `yaml:"databaseURL" validate:"required"`
	AllowedOrigins    []string         `yaml:"allowedOrigins,omitempty"`
	RequestsPerMinute int              `yaml:"requestsPerMinute,omitempty" validate:"omitempty,min=1"`
	Roster            RosterConfig     `yaml:"roster,omitempty"`
	Gmail             GmailConfig      `yaml:"gmail,omitempty"`
	Invitation        InvitationConfig `yaml:"invitation,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration, looking for the config file
// in the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Values may reference environment variables with ${VAR} syntax, which
// keeps database credentials out of the file itself.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 120
	}
	if cfg.Invitation.Protocol == "" {
		cfg.Invitation.Protocol = "https"
	}
	if cfg.Invitation.Subject == "" {
		cfg.Invitation.Subject = "Bienvenue sur le planning des benevoles"
	}
}

// findConfigFile searches for the config file in the current directory and
// the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

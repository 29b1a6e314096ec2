// Package config loads the falcon2jira configuration from the environment
// and an optional YAML config file via Viper. The environment variable names
// match what the original scheduled runner deployment used, so an existing
// deployment's settings carry over unchanged.
package config

import (
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// Defaults applied when neither the environment nor the config file sets a
// value.
const (
	DefaultTransitionID = "4"
	DefaultMaxAlerts    = 5
	DefaultDoneStatus   = "Done"
)

// DefaultOpenStatuses are the issue statuses still eligible for updates.
var DefaultOpenStatuses = []string{"To Do", "In Progress"}

// Config is everything a sync run needs.
type Config struct {
	// Falcon API OAuth2 client credentials.
	FalconClientID     string `mapstructure:"falcon_client_id"`
	FalconClientSecret string `mapstructure:"falcon_client_secret"`
	// FalconBaseURL overrides the default API region when set.
	FalconBaseURL string `mapstructure:"falcon_base_url"`

	// Jira Cloud credentials and site.
	JiraUser   string `mapstructure:"jira_user"`
	JiraToken  string `mapstructure:"jira_token"`
	JiraDomain string `mapstructure:"atl_company_domain"`

	// Reconciliation policy.
	ProjectKey   string   `mapstructure:"jira_project_name"`
	TransitionID string   `mapstructure:"jira_transition_id"`
	DoneStatus   string   `mapstructure:"jira_done_status"`
	OpenStatuses []string `mapstructure:"jira_open_statuses"`
	MaxAlerts    int      `mapstructure:"max_alerts"`
}

// Load reads configuration from a .env file (when present), the process
// environment, and an optional config file. configFile may be empty.
func Load(configFile string) (*Config, error) {
	// A .env next to the binary keeps local runs close to the deployed
	// environment-variable setup. Missing file is fine.
	if err := godotenv.Load(); err == nil {
		logging.Debug().Msg("Loaded environment from .env file")
	}

	v := viper.New()
	v.SetDefault("jira_transition_id", DefaultTransitionID)
	v.SetDefault("jira_done_status", DefaultDoneStatus)
	v.SetDefault("jira_open_statuses", DefaultOpenStatuses)
	v.SetDefault("max_alerts", DefaultMaxAlerts)

	v.AutomaticEnv()
	for _, key := range []string{
		"falcon_client_id", "falcon_client_secret", "falcon_base_url",
		"jira_user", "jira_token", "atl_company_domain",
		"jira_project_name", "jira_transition_id", "jira_done_status",
		"jira_open_statuses", "max_alerts",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, errors.NewConfigError("env", "binding "+key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "reading "+configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("viper", "unmarshaling configuration", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the missing or invalid settings as one typed error.
func (c *Config) Validate() error {
	var missing []string
	for key, value := range map[string]string{
		"FALCON_CLIENT_ID":     c.FalconClientID,
		"FALCON_CLIENT_SECRET": c.FalconClientSecret,
		"JIRA_USER":            c.JiraUser,
		"JIRA_TOKEN":           c.JiraToken,
		"ATL_COMPANY_DOMAIN":   c.JiraDomain,
		"JIRA_PROJECT_NAME":    c.ProjectKey,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.NewConfigError("settings",
			"missing required settings: "+strings.Join(missing, ", "), nil)
	}

	if c.MaxAlerts <= 0 {
		return &errors.ValidationError{
			Field:   "MAX_ALERTS",
			Value:   c.MaxAlerts,
			Message: "must be positive",
		}
	}
	if len(c.OpenStatuses) == 0 {
		return &errors.ValidationError{
			Field:   "JIRA_OPEN_STATUSES",
			Message: "must name at least one open status",
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	DatabaseURL   string
	RedisAddress  string
	RedisPassword string

	SupabaseURL         string
	SupabaseAnonKey     string
	SupabaseJWTSecret   []byte
	SupabaseJWTAudience string
	RemoteUserCheck     bool

	AccessTokenCookie  string
	RefreshTokenCookie string
	AllowedOrigins     []string
	PublicOrigin       string

	Display DisplayConfig
	Apps    map[domain.App]AppConfig
}

type DisplayConfig struct {
	DefaultName      string `yaml:"default_name"`
	DefaultAvatarURL string `yaml:"default_avatar_url"`
}

type AppConfig struct {
	Routes domain.AppRoutes `yaml:"routes"`
	Tables TableConfig      `yaml:"tables"`
}

// TableConfig names the Postgres relations backing one app. Values end up in
// SQL text and must be plain identifiers.
type TableConfig struct {
	Profiles           string   `yaml:"profiles"`
	Notifications      string   `yaml:"notifications"`
	RoleRecords        string   `yaml:"role_records"`
	Activation         string   `yaml:"activation"`
	ActivationKey      string   `yaml:"activation_key"`
	PendingItems       string   `yaml:"pending_items"`
	PendingOwnerColumn string   `yaml:"pending_owner_column"`
	PendingStatuses    []string `yaml:"pending_statuses"`
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

func Load() *Config {
	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		panic("SUPABASE_JWT_SECRET environment variable is required")
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	cfg := &Config{
		Env:                 getenv("APP_ENV", "production"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		Port:                getenv("PORT", "8080"),
		DatabaseURL:         dbURL,
		RedisAddress:        getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		SupabaseURL:         strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret:   []byte(secret),
		SupabaseJWTAudience: getenv("SUPABASE_JWT_AUDIENCE", "authenticated"),
		RemoteUserCheck:     getenvBool("SUPABASE_REMOTE_USER_CHECK", false),
		AccessTokenCookie:   getenv("ACCESS_TOKEN_COOKIE", "sb-access-token"),
		RefreshTokenCookie:  getenv("REFRESH_TOKEN_COOKIE", "sb-refresh-token"),
		AllowedOrigins:      splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		PublicOrigin:        getenv("PUBLIC_ORIGIN", "http://localhost:3000"),
		Display: DisplayConfig{
			DefaultName:      domain.DefaultDisplayName,
			DefaultAvatarURL: domain.DefaultAvatarURL,
		},
		Apps: DefaultApps(),
	}

	if cfg.RemoteUserCheck && cfg.SupabaseURL == "" {
		panic("SUPABASE_URL is required when SUPABASE_REMOTE_USER_CHECK is enabled")
	}

	if path := os.Getenv("APPS_CONFIG_FILE"); path != "" {
		if err := cfg.LoadAppsFile(path); err != nil {
			panic("Failed to load apps config: " + err.Error())
		}
	}
	return cfg
}

func DefaultApps() map[domain.App]AppConfig {
	routes := domain.AppRoutes{
		Login:      "/login",
		Onboarding: "/onboarding",
		Activation: "/activation",
		Dashboard:  "/dashboard",
	}
	return map[domain.App]AppConfig{
		domain.AppDoer: {
			Routes: routes,
			Tables: TableConfig{
				Profiles:           "profiles",
				Notifications:      "notifications",
				RoleRecords:        "doers",
				Activation:         "doer_activation",
				ActivationKey:      "doer_id",
				PendingItems:       "projects",
				PendingOwnerColumn: "doer_id",
				PendingStatuses:    []string{"assigned", "in_progress", "revision_requested"},
			},
		},
		domain.AppSupervisor: {
			Routes: routes,
			Tables: TableConfig{
				Profiles:           "profiles",
				Notifications:      "notifications",
				RoleRecords:        "supervisors",
				Activation:         "supervisor_activation",
				ActivationKey:      "supervisor_id",
				PendingItems:       "projects",
				PendingOwnerColumn: "supervisor_id",
				PendingStatuses:    []string{"submitted_for_qc"},
			},
		},
	}
}

type appsFile struct {
	Display DisplayConfig        `yaml:"display"`
	Apps    map[string]AppConfig `yaml:"apps"`
}

// LoadAppsFile overlays per-app routes, tables and display defaults from a
// YAML file. Fields left empty keep their current value.
func (c *Config) LoadAppsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file appsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if file.Display.DefaultName != "" {
		c.Display.DefaultName = file.Display.DefaultName
	}
	if file.Display.DefaultAvatarURL != "" {
		c.Display.DefaultAvatarURL = file.Display.DefaultAvatarURL
	}

	for name, override := range file.Apps {
		app := domain.App(name)
		if !app.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownApp, name)
		}
		c.Apps[app] = mergeApp(c.Apps[app], override)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	for app, ac := range c.Apps {
		t := ac.Tables
		for _, ident := range []string{t.Profiles, t.Notifications, t.RoleRecords, t.Activation, t.ActivationKey, t.PendingItems, t.PendingOwnerColumn} {
			if !identifierPattern.MatchString(ident) {
				return fmt.Errorf("app %s: invalid table or column name %q", app, ident)
			}
		}
		r := ac.Routes
		for _, path := range []string{r.Login, r.Onboarding, r.Activation, r.Dashboard} {
			if !strings.HasPrefix(path, "/") {
				return fmt.Errorf("app %s: route %q must be an absolute path", app, path)
			}
		}
	}
	return nil
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func mergeApp(base, override AppConfig) AppConfig {
	pick := func(cur *string, val string) {
		if val != "" {
			*cur = val
		}
	}
	pick(&base.Routes.Login, override.Routes.Login)
	pick(&base.Routes.Onboarding, override.Routes.Onboarding)
	pick(&base.Routes.Activation, override.Routes.Activation)
	pick(&base.Routes.Dashboard, override.Routes.Dashboard)

	pick(&base.Tables.Profiles, override.Tables.Profiles)
	pick(&base.Tables.Notifications, override.Tables.Notifications)
	pick(&base.Tables.RoleRecords, override.Tables.RoleRecords)
	pick(&base.Tables.Activation, override.Tables.Activation)
	pick(&base.Tables.ActivationKey, override.Tables.ActivationKey)
	pick(&base.Tables.PendingItems, override.Tables.PendingItems)
	pick(&base.Tables.PendingOwnerColumn, override.Tables.PendingOwnerColumn)
	if len(override.Tables.PendingStatuses) > 0 {
		base.Tables.PendingStatuses = override.Tables.PendingStatuses
	}
	return base
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

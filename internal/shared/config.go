package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		DSN string `yaml:"dsn"` // "./rfescope.db"
	} `yaml:"database"`

	Server struct {
		Addr           string   `yaml:"addr"`            // ":8080"
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS
		SessionHours   int      `yaml:"session_hours"`   // 12
	} `yaml:"server"`

	Assessment struct {
		MaxPriorityActions int      `yaml:"max_priority_actions"` // 5
		DeadlineWindowDays int      `yaml:"deadline_window_days"` // 14
		DisabledRules      []string `yaml:"disabled_rules"`
		RulesPack          string   `yaml:"rules_pack"` // optional YAML pack path
	} `yaml:"assessment"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.DSN = "./rfescope.db"
	c.Server.Addr = ":8080"
	c.Server.SessionHours = 12
	c.Assessment.MaxPriorityActions = 5
	c.Assessment.DeadlineWindowDays = 14
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("RFESCOPE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RFESCOPE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RFESCOPE_RULES_PACK"); v != "" {
		c.Assessment.RulesPack = v
	}
	if v := os.Getenv("RFESCOPE_DEADLINE_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Assessment.DeadlineWindowDays = n
		}
	}
	if v := os.Getenv("RFESCOPE_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("RFESCOPE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RFESCOPE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}

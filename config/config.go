package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Secret   string `yaml:"secret" json:"secret"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// JobConfig holds cron expressions for the background jobs. Empty values
// fall back to the defaults set in DefaultAppConfig.
type JobConfig struct {
	Heartbeat string `yaml:"heartbeat" json:"heartbeat"`
	Report    string `yaml:"report" json:"report"`
	Reminders string `yaml:"reminders" json:"reminders"`
	LowStock  string `yaml:"low_stock" json:"low_stock"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Jobs     JobConfig  `yaml:"jobs" json:"jobs"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "alxcrm",
		Location: "UTC",
		Workdir:  "/var/alxcrm",
		Debug:    false,
	},
	Web: WebConfig{
		Host:     "0.0.0.0",
		Port:     8000,
		Secret:   "9b6de5cc-alxcrm-1115-472bbce9",
		Username: "admin",
		Password: "alxcrm",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "alxcrm",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/alxcrm/alxcrm.log",
	},
	Jobs: JobConfig{
		Heartbeat: "@every 5m",
		Report:    "@daily",
		Reminders: "@daily",
		LowStock:  "@every 12h",
	},
}

func setEnvStrValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the configuration file if it exists, otherwise starts
// from defaults. Environment variables with the CRM_ prefix override both.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile == "" {
		cfile = "alxcrm.yml"
	}
	if _, err := os.Stat(cfile); err == nil {
		data, err := os.ReadFile(cfile)
		if err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvStrValue("CRM_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvStrValue("CRM_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("CRM_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvStrValue("CRM_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CRM_WEB_PORT", &cfg.Web.Port)
	setEnvStrValue("CRM_WEB_SECRET", &cfg.Web.Secret)
	setEnvStrValue("CRM_WEB_USERNAME", &cfg.Web.Username)
	setEnvStrValue("CRM_WEB_PASSWORD", &cfg.Web.Password)

	setEnvStrValue("CRM_DB_TYPE", &cfg.Database.Type)
	setEnvStrValue("CRM_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CRM_DB_PORT", &cfg.Database.Port)
	setEnvStrValue("CRM_DB_NAME", &cfg.Database.Name)
	setEnvStrValue("CRM_DB_USER", &cfg.Database.User)
	setEnvStrValue("CRM_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("CRM_DB_DEBUG", &cfg.Database.Debug)

	setEnvStrValue("CRM_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("CRM_SMTP_PORT", &cfg.Smtp.Port)
	setEnvStrValue("CRM_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvStrValue("CRM_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvStrValue("CRM_SMTP_FROM", &cfg.Smtp.From)

	setEnvStrValue("CRM_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("CRM_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvStrValue("CRM_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.initDirs()
	return cfg
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0o755)
}

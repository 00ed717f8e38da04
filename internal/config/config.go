package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	AccessSecret string
}

type ReportConfig struct {
	// BaseDir is where site workbooks live; ProductDir receives artifacts.
	BaseDir        string
	ProductDir     string
	SitesFile      string
	LookbackMonths int
	// StageKeywords mark worksheets eligible for the quality pass;
	// FinalKeywords mark the terminal stage, after which the pass stops.
	StageKeywords []string
	FinalKeywords []string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Report      ReportConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN: v.GetString("DB_DSN"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Report: ReportConfig{
			BaseDir:        v.GetString("REPORT_BASE_DIR"),
			ProductDir:     v.GetString("REPORT_PRODUCT_DIR"),
			SitesFile:      v.GetString("REPORT_SITES_FILE"),
			LookbackMonths: v.GetInt("REPORT_LOOKBACK_MONTHS"),
			StageKeywords:  parseList(v.GetString("REPORT_STAGE_KEYWORDS")),
			FinalKeywords:  parseList(v.GetString("REPORT_FINAL_KEYWORDS")),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Report.BaseDir == "" {
		cfg.Report.BaseDir = "."
	}
	if cfg.Report.ProductDir == "" {
		cfg.Report.ProductDir = "Product"
	}
	if cfg.Report.SitesFile == "" {
		cfg.Report.SitesFile = "sites.json"
	}
	if cfg.Report.LookbackMonths == 0 {
		cfg.Report.LookbackMonths = 6
	}
	if len(cfg.Report.StageKeywords) == 0 {
		cfg.Report.StageKeywords = []string{"raw", "sewage", "biofilter", "waternox", "waternox-ls"}
	}
	if len(cfg.Report.FinalKeywords) == 0 {
		cfg.Report.FinalKeywords = []string{"final effluent", "polisher effluent"}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateServe checks the extra settings the HTTP mode needs; the CLI modes
// run without them.
func (c *Config) ValidateServe() error {
	if c.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required in serve mode")
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Report.LookbackMonths < 1 {
		return fmt.Errorf("REPORT_LOOKBACK_MONTHS must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

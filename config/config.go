// Package config loads generator settings from an optional file and the
// RELATORIOS_* environment.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/rarotec/relatorios/binding"
	"github.com/rarotec/relatorios/compose"
	"github.com/rarotec/relatorios/plan"
)

const envPrefix = "RELATORIOS"

type Config struct {
	Company             string `mapstructure:"company"`
	Owner               string `mapstructure:"owner"`
	OutputDir           string `mapstructure:"output_dir"`
	ReportTemplate      string `mapstructure:"report_template"`
	AttachmentsTemplate string `mapstructure:"attachments_template"`
	Timezone            string `mapstructure:"timezone"`
	LogLevel            string `mapstructure:"log_level"`
	PlanFile            string `mapstructure:"plan_file"`
}

// Default returns the settings used when neither file nor environment says otherwise.
func Default() Config {
	return Config{
		Company:             compose.DefaultCompany,
		Owner:               compose.DefaultOwner,
		OutputDir:           ".",
		ReportTemplate:      string(compose.DefaultReportTemplate),
		AttachmentsTemplate: string(compose.DefaultAttachmentsTemplate),
		Timezone:            "America/Sao_Paulo",
		LogLevel:            "info",
	}
}

// Load reads path from fs, when path is not empty, and overlays the environment.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	def := Default()
	v.SetDefault("company", def.Company)
	v.SetDefault("owner", def.Owner)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("report_template", def.ReportTemplate)
	v.SetDefault("attachments_template", def.AttachmentsTemplate)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("plan_file", def.PlanFile)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the templates, the timezone and the log level.
func (c *Config) Validate() error {
	templates := []struct{ key, value string }{
		{"report_template", c.ReportTemplate},
		{"attachments_template", c.AttachmentsTemplate},
	}
	for _, tpl := range templates {
		if strings.TrimSpace(tpl.value) == "" {
			return fmt.Errorf("%s must not be empty", tpl.key)
		}
		if err := binding.Template(tpl.value).Check(compose.TemplateVars...); err != nil {
			return fmt.Errorf("%s: %w", tpl.key, err)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; an empty value means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level parses LogLevel; an empty value means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Plans loads PlanFile from fs, or the embedded plan when none is set.
func (c *Config) Plans(fs afero.Fs) (*plan.Set, error) {
	if c.PlanFile == "" {
		return plan.Default()
	}
	return plan.Load(fs, c.PlanFile)
}

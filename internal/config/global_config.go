// Package config loads the service configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/recommend"
)

type IConfig interface {
	Validate() []error
}

type GlobalConfig struct {
	Server    *ServerConfig    `json:"server" yaml:"server"`
	Database  *DatabaseConfig  `json:"database" yaml:"database"`
	Auth      *AuthConfig      `json:"auth" yaml:"auth"`
	Scraper   *ScraperConfig   `json:"scraper" yaml:"scraper"`
	AI        *AIConfig        `json:"ai" yaml:"ai"`
	Analysis  analysis.Config  `json:"analysis" yaml:"analysis"`
	Recommend recommend.Config `json:"recommend" yaml:"recommend"`
	Redis     *RedisConfig     `json:"redis" yaml:"redis"`
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Log       *LogConfig       `json:"log" yaml:"log"`
}

func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	for _, c := range []IConfig{g.Server, g.Database, g.Auth, g.Scraper, g.AI} {
		if es := c.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	if g.Analysis.WeakRatio <= 0 || g.Analysis.WeakRatio > 1 {
		errs = append(errs, errors.Errorf("analysis.weak_ratio must be in (0, 1], got %v", g.Analysis.WeakRatio))
	}
	if g.Analysis.KeywordThreshold <= 0 || g.Analysis.KeywordThreshold > 1 {
		errs = append(errs, errors.Errorf("analysis.keyword_threshold must be in (0, 1], got %v", g.Analysis.KeywordThreshold))
	}
	return errs
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Server:    NewDefaultServerConfig(),
		Database:  NewDefaultDatabaseConfig(),
		Auth:      NewDefaultAuthConfig(),
		Scraper:   NewDefaultScraperConfig(),
		AI:        NewDefaultAIConfig(),
		Analysis:  analysis.DefaultConfig(),
		Recommend: recommend.DefaultConfig(),
		Redis:     &RedisConfig{TTL: 24 * time.Hour},
		Scheduler: &SchedulerConfig{},
		Log:       &LogConfig{Level: "info"},
	}
}

// envBindings keeps the historical environment variable names working.
var envBindings = map[string]string{
	"server.port":          "PORT",
	"database.host":        "MYSQL_HOST",
	"database.port":        "MYSQL_PORT",
	"database.user":        "MYSQL_USER",
	"database.password":    "MYSQL_PASSWORD",
	"database.database":    "MYSQL_DATABASE",
	"auth.jwt_secret":      "JWT_SECRET",
	"auth.jwt_duration":    "JWT_DURATION",
	"scraper.api_key":      "SCRAPER_API_KEY",
	"scraper.base_url":     "SCRAPER_BASE_URL",
	"scraper.provider":     "SCRAPER_PROVIDER",
	"ai.api_key":           "AI_API_KEY",
	"ai.provider":          "AI_PROVIDER",
	"ai.model":             "AI_MODEL",
	"ai.embedding.api_key": "EMBEDDING_API_KEY",
	"redis.addr":           "REDIS_ADDR",
	"scheduler.spec":       "SCHEDULER_SPEC",
	"log.level":            "LOG_LEVEL",
}

// Load resolves the configuration. configFilePath may be empty; a path that
// does not exist is an error.
func Load(configFilePath string) (*GlobalConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind %s", env)
		}
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return nil, err
		}
		dir, file := filepath.Split(configFilePath)
		fileType := filepath.Ext(file)
		v.AddConfigPath(dir)
		v.SetConfigName(strings.TrimSuffix(file, fileType))
		v.SetConfigType(strings.TrimPrefix(fileType, "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("failed to parse config file: %s", err.Error())
		}
	}

	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = "yaml"
	}); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

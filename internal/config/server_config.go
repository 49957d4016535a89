package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

type ServerConfig struct {
	Port            string        `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idleTimeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdown_timeout"`
}

func (s *ServerConfig) Validate() []error {
	var errs = make([]error, 0)
	if s.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	return errs
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            "8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf(":%s", s.Port)
}

type DatabaseConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            string        `json:"port" yaml:"port"`
	User            string        `json:"user" yaml:"user"`
	Password        string        `json:"password" yaml:"password"`
	Database        string        `json:"database" yaml:"database"`
	MaxOpen         int           `json:"maxOpen" yaml:"max_open"`
	MaxIdle         int           `json:"maxIdle" yaml:"max_idle"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"conn_max_lifetime"`
}

func (d *DatabaseConfig) Validate() []error {
	var errs = make([]error, 0)
	if d.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if d.Database == "" {
		errs = append(errs, errors.New("database.database is required"))
	}
	return errs
}

func NewDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:            "localhost",
		Port:            "3306",
		User:            "root",
		Database:        "geospy",
		MaxOpen:         25,
		MaxIdle:         5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// DSN returns the MySQL data source name.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type AuthConfig struct {
	JWTSecret   string        `json:"-" yaml:"jwt_secret"`
	JWTDuration time.Duration `json:"jwtDuration" yaml:"jwt_duration"`
}

func (a *AuthConfig) Validate() []error {
	var errs = make([]error, 0)
	if a.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if a.JWTDuration <= 0 {
		errs = append(errs, errors.New("auth.jwt_duration must be positive"))
	}
	return errs
}

func NewDefaultAuthConfig() *AuthConfig {
	return &AuthConfig{JWTDuration: 24 * time.Hour}
}

type RedisConfig struct {
	Addr     string        `json:"addr" yaml:"addr"`
	Password string        `json:"-" yaml:"password"`
	DB       int           `json:"db" yaml:"db"`
	TTL      time.Duration `json:"ttl" yaml:"ttl"`
}

type SchedulerConfig struct {
	// Spec is a five-field cron expression. Empty disables scheduled scrapes.
	Spec string `json:"spec" yaml:"spec"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

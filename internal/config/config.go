package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/railatlas-loader/internal/pkg/validator"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Source   SourceConfig
	Reload   ReloadConfig
}

type DatabaseConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"required"`
	User            string `validate:"required"`
	Password        string
	DBName          string `validate:"required"`
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// SourceConfig locates the raw survey inputs. Paths are explicit
// configuration handed to the importer, never package-level state.
type SourceConfig struct {
	LinesShapefile string `validate:"required"`
	StopsShapefile string `validate:"required"`
	CrosswalkCSV   string `validate:"required"`
}

type ReloadConfig struct {
	// SimplifyTolerance is a distance in the simplification reference
	// system's units (meters in web mercator).
	SimplifyTolerance float64
	// TransformBackend selects the CRS-transform primitive.
	TransformBackend string `validate:"oneof=postgis proj"`
	// LockTTL bounds how long a crashed reload can hold the writer lock.
	LockTTL time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Source: SourceConfig{
			LinesShapefile: viper.GetString("SOURCE_LINES_SHAPEFILE"),
			StopsShapefile: viper.GetString("SOURCE_STOPS_SHAPEFILE"),
			CrosswalkCSV:   viper.GetString("SOURCE_CROSSWALK_CSV"),
		},
		Reload: ReloadConfig{
			SimplifyTolerance: viper.GetFloat64("RELOAD_SIMPLIFY_TOLERANCE"),
			TransformBackend:  viper.GetString("RELOAD_TRANSFORM_BACKEND"),
			LockTTL:           time.Duration(viper.GetInt("RELOAD_LOCK_TTL")) * time.Second,
		},
	}

	// Defaults
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Reload.SimplifyTolerance == 0 {
		cfg.Reload.SimplifyTolerance = 500
	}
	if cfg.Reload.TransformBackend == "" {
		cfg.Reload.TransformBackend = "postgis"
	}
	if cfg.Reload.LockTTL == 0 {
		cfg.Reload.LockTTL = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

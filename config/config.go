package config

import (
	"fmt"
	"time"

	"github.com/lshigami/cbt-saw/internal/scoring"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	RabbitMQ RabbitMQ
	Gemini   Gemini
	SAW      SAW
}

type Server struct {
	Port           string
	RequestTimeout time.Duration
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	SlowSQL  time.Duration
}

// DSN builds the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type Redis struct {
	Addr            string
	Password        string
	DB              int
	RankingCacheTTL time.Duration
}

type RabbitMQ struct {
	URL      string
	Exchange string
}

type Gemini struct {
	APIKey string
	Model  string
}

type SAW struct {
	WeightC1 float64
	WeightC2 float64
	WeightC3 float64
	WeightC4 float64
	MaxScale float64
	MinScale float64
	BandHigh float64
	BandMid  float64
}

func setDefaults(v *viper.Viper) {
	def := scoring.DefaultConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_SLOW_SQL", "200ms")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RANKING_CACHE_TTL", "30s")
	v.SetDefault("RABBITMQ_EXCHANGE", "cbt.events")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("SAW_WEIGHT_C1", def.W1)
	v.SetDefault("SAW_WEIGHT_C2", def.W2)
	v.SetDefault("SAW_WEIGHT_C3", def.W3)
	v.SetDefault("SAW_WEIGHT_C4", def.W4)
	v.SetDefault("SAW_MAX_SCALE", def.MaxScale)
	v.SetDefault("SAW_MIN_SCALE", def.MinScale)
	v.SetDefault("SAW_BAND_HIGH", def.HighBand)
	v.SetDefault("SAW_BAND_MID", def.MidBand)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	cfg := fromViper(v)
	if _, err := cfg.ScoringConfig(); err != nil {
		return nil, fmt.Errorf("invalid SAW configuration: %w", err)
	}

	log.Info().
		Str("port", cfg.Server.Port).
		Str("dbHost", cfg.Database.Host).
		Str("dbName", cfg.Database.Name).
		Str("redisAddr", cfg.Redis.Addr).
		Bool("rabbitmq", cfg.RabbitMQ.URL != "").
		Bool("gemini", cfg.Gemini.APIKey != "").
		Msg("Config loaded")
	return &cfg, nil
}

func fromViper(v *viper.Viper) Config {
	var cfg Config

	cfg.Server.Port = v.GetString("SERVER_PORT")
	cfg.Server.RequestTimeout = v.GetDuration("REQUEST_TIMEOUT")

	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetString("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.Name = v.GetString("DATABASE_NAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.SlowSQL = v.GetDuration("DATABASE_SLOW_SQL")

	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.RankingCacheTTL = v.GetDuration("RANKING_CACHE_TTL")

	cfg.RabbitMQ.URL = v.GetString("RABBITMQ_URL")
	cfg.RabbitMQ.Exchange = v.GetString("RABBITMQ_EXCHANGE")

	cfg.Gemini.APIKey = v.GetString("GEMINI_API_KEY")
	cfg.Gemini.Model = v.GetString("GEMINI_MODEL")

	cfg.SAW.WeightC1 = v.GetFloat64("SAW_WEIGHT_C1")
	cfg.SAW.WeightC2 = v.GetFloat64("SAW_WEIGHT_C2")
	cfg.SAW.WeightC3 = v.GetFloat64("SAW_WEIGHT_C3")
	cfg.SAW.WeightC4 = v.GetFloat64("SAW_WEIGHT_C4")
	cfg.SAW.MaxScale = v.GetFloat64("SAW_MAX_SCALE")
	cfg.SAW.MinScale = v.GetFloat64("SAW_MIN_SCALE")
	cfg.SAW.BandHigh = v.GetFloat64("SAW_BAND_HIGH")
	cfg.SAW.BandMid = v.GetFloat64("SAW_BAND_MID")

	return cfg
}

// ScoringConfig builds and validates the SAW configuration.
func (c *Config) ScoringConfig() (scoring.Config, error) {
	sc := scoring.Config{
		W1:       c.SAW.WeightC1,
		W2:       c.SAW.WeightC2,
		W3:       c.SAW.WeightC3,
		W4:       c.SAW.WeightC4,
		MaxScale: c.SAW.MaxScale,
		MinScale: c.SAW.MinScale,
		HighBand: c.SAW.BandHigh,
		MidBand:  c.SAW.BandMid,
	}
	return sc, sc.Validate()
}

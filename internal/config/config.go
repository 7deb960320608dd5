package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	DB struct {
		Driver        string `mapstructure:"driver"`
		MongoURI      string `mapstructure:"mongo_uri"`
		MongoDatabase string `mapstructure:"mongo_database"`
		DSN           string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	GitHub struct {
		BaseURL      string `mapstructure:"base_url"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
	} `mapstructure:"github"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	Profile struct {
		LockMode      string `mapstructure:"lock_mode"`
		RemovalPolicy string `mapstructure:"removal_policy"`
	} `mapstructure:"profile"`
}

// LoadConfig reads .env, an optional config.yaml from paths (or "."), and
// the environment, in increasing order of precedence. It is meant to be
// called once at process start; the result is passed down explicitly.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
		err = nil
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return cfg, err
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.Kafka.Brokers = splitBrokers(cfg.Kafka.Brokers)
	return cfg, nil
}

var envBindings = map[string]string{
	"app.port":               "PORT",
	"app.env":                "APP_ENV",
	"log.level":              "LOG_LEVEL",
	"db.driver":              "DB_DRIVER",
	"db.mongo_uri":           "MONGO_URI",
	"db.mongo_database":      "MONGO_DATABASE",
	"db.dsn":                 "DB_DSN",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
	"kafka.brokers":          "KAFKA_BROKERS",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.token_lifespan":    "TOKEN_LIFESPAN",
	"github.base_url":        "GITHUB_BASE_URL",
	"github.client_id":       "GITHUB_CLIENT_ID",
	"github.client_secret":   "GITHUB_SECRET",
	"cloudinary.cloud_name":  "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":     "CLOUDINARY_API_KEY",
	"cloudinary.api_secret":  "CLOUDINARY_API_SECRET",
	"jaeger.otlp_endpoint":   "OTLP_ENDPOINT",
	"profile.lock_mode":      "PROFILE_LOCK_MODE",
	"profile.removal_policy": "PROFILE_REMOVAL_POLICY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo_database", "devconnector")
	v.SetDefault("auth.token_lifespan", 360000*time.Second)
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("profile.lock_mode", "none")
	v.SetDefault("profile.removal_policy", "strict")
}

// splitBrokers accepts both a YAML list and a comma separated env value.
func splitBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

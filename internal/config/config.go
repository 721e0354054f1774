package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Email      `yaml:"email"`
	Redis      `yaml:"redis"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Postgres описывает хранилище броней. Key, если задан, используется как пароль
// и перекрывает пароль из URL.
type Postgres struct {
	URL   string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	Key   string `yaml:"key" env:"DATABASE_KEY"`
	Table string `yaml:"table" env-default:"reservations"`
}

type Email struct {
	Host     string `yaml:"host" env-default:"smtp.resend.com"`
	Port     int    `yaml:"port" env-default:"465"`
	Username string `yaml:"username" env-default:"resend"`
	APIKey   string `yaml:"api_key" env:"EMAIL_API_KEY" env-required:"true"`
	From     string `yaml:"from" env-default:"Coffee Shop <no-reply@yourdomain.com>"`
	Owner    string `yaml:"owner" env:"OWNER_EMAIL" env-required:"true"`
}

// Redis хранит брони, по которым не ушли письма. Пустой адрес отключает журнал.
type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

// MustLoad читает конфиг по пути из CONFIG_PATH (или по умолчанию) и падает при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	// проверка существования файла
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config %s: %w", op, configPath, err)
	}

	return &cfg, nil
}

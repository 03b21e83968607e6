package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env-default:"9090"`
	Redis    Redis    `yaml:"redis"`
	Game     Game     `yaml:"game"`
	Geocoder Geocoder `yaml:"geocoder"`
	CORS     CORS     `yaml:"cors"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Game struct {
	BoardSize   int    `yaml:"board-size" env-default:"3"`
	FirstPlayer string `yaml:"first-player" env-default:"X"`
}

type Geocoder struct {
	BaseURL   string        `yaml:"base-url" env-default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `yaml:"user-agent" env-default:"tictactoe-engine"`
	Timeout   time.Duration `yaml:"timeout" env-default:"5s"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env-default:"http://localhost:3000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

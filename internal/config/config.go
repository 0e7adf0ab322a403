package config

import (
	"fmt"
	"os"
	"time"

	"github.com/DoyleJ11/room-status/internal/render"
	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL    string        `env:"ROOM_BACKEND_URL,required=true" validate:"required,url"`
	RoomID        string        `env:"ROOM_ID"`
	Viewer        string        `env:"ROOM_VIEWER_HOSTNAME"`
	PollInterval  time.Duration `env:"ROOM_POLL_INTERVAL,default=7s" validate:"gt=0"`
	HTTPTimeout   time.Duration `env:"ROOM_HTTP_TIMEOUT,default=10s" validate:"gt=0"`
	AutoSetStatus string        `env:"ROOM_AUTO_SET_STATUS" validate:"omitempty,oneof=green yellow red"`
	ListenAddr    string        `env:"LISTEN_ADDR,default=:8080" validate:"required"`
	LogLevel      string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	LogFormat     string        `env:"LOG_FORMAT,default=json" validate:"oneof=json console"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return LoadFrom(es)
}

func LoadFrom(es env.EnvSet) (Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}

	if cfg.Viewer == "" {
		host, err := os.Hostname()
		if err != nil {
			return Config{}, fmt.Errorf("config error: ROOM_VIEWER_HOSTNAME unset and hostname unavailable: %w", err)
		}
		cfg.Viewer = host
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func (c Config) Policy() render.Policy {
	if c.AutoSetStatus == "" {
		return render.Policy{}
	}
	st, _ := room.ParseStatus(c.AutoSetStatus)
	return render.Policy{AutoSetStatus: &st}
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	stageProd = "prod"
	stageDev  = "dev"

	roleHost = "host"
	roleJoin = "join"

	defaultPort = 9191
	envFile     = ".env"
)

type Config struct {
	Stage       string
	Role        string
	Port        int
	PeerAddr    string
	Codec       string
	DatabaseUrl string
	PlayerName  string
}

// Load reads the configuration from the environment. Outside prod a
// .env file is loaded first; variables already set win over it.
func Load() (Config, error) {
	if os.Getenv("STAGE") != stageProd {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
			log.Println("no .env file found; using environment only")
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from a variable lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Stage:       getenv("STAGE"),
		Role:        getenv("ROLE"),
		Port:        defaultPort,
		PeerAddr:    getenv("PEER_ADDR"),
		Codec:       getenv("CODEC"),
		DatabaseUrl: getenv("DATABASE_URL"),
		PlayerName:  getenv("PLAYER_NAME"),
	}

	if cfg.Stage == "" {
		cfg.Stage = stageDev
	}
	if cfg.Stage != stageDev && cfg.Stage != stageProd {
		return cfg, fmt.Errorf("stage must be either dev or prod: %s", cfg.Stage)
	}

	if cfg.Role == "" {
		cfg.Role = roleHost
	}
	if cfg.Role != roleHost && cfg.Role != roleJoin {
		return cfg, fmt.Errorf("role must be either host or join: %s", cfg.Role)
	}

	if portEnv := getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return cfg, fmt.Errorf("invalid port: %w", err)
		}
		if port <= 0 || port >= 1<<16 {
			return cfg, fmt.Errorf("port out of range: %d", port)
		}
		cfg.Port = port
	}

	if cfg.Role == roleJoin && cfg.PeerAddr == "" {
		return cfg, errors.New("PEER_ADDR is required to join a game")
	}

	switch cfg.Codec {
	case "":
		cfg.Codec = "json"
	case "json", "proto":
	default:
		return cfg, fmt.Errorf("codec must be either json or proto: %s", cfg.Codec)
	}

	return cfg, nil
}

func (c Config) IsHost() bool {
	return c.Role == roleHost
}

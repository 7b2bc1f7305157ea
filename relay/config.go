package relay

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is environment-first so a dedicated relay box needs no files;
// the embedded relay started by the client's -host flag uses the defaults.
type Config struct {
	Addr      string `env:"GBLINK_RELAY_ADDR" envDefault:":8213"`
	HTTPAddr  string `env:"GBLINK_RELAY_HTTP" envDefault:":8214"`
	StorePath string `env:"GBLINK_RELAY_STORE" envDefault:"relay.db"`
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

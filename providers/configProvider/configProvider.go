package configprovider

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"unilance/providers"
)

type EnvConfigProvider struct {
	cfg providers.Config
}

func NewConfigProvider() providers.ConfigProvider {
	return &EnvConfigProvider{}
}

func (e *EnvConfigProvider) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not loaded, using system envs")
	}
	if err := envconfig.Process(context.Background(), &e.cfg); err != nil {
		return err
	}
	return nil
}

func (e *EnvConfigProvider) GetConfig() *providers.Config {
	return &e.cfg
}

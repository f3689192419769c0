package loggerprovider

import (
	"log"

	"go.uber.org/zap"

	"unilance/logger"
	"unilance/providers"
)

type LogProvider struct {
	env    string
	logger *zap.Logger
}

func NewLogProvider(env string) providers.ZapLoggerProvider {
	return &LogProvider{env: env}
}

func (l *LogProvider) InitLogger() {
	lg, err := logger.New(l.env)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	l.logger = lg
	zap.ReplaceGlobals(l.logger)
}

func (l *LogProvider) SyncLogger() {
	if l.logger != nil {
		_ = l.logger.Sync()
	}
}

func (l *LogProvider) GetLogger() *zap.Logger {
	return l.logger
}

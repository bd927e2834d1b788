package logger

import (
	"labbridge-service/internal/app/config"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the bootstrap logger used during startup/shutdown; request
// handling uses the zap logger instead.
func NewLogger(internalConfig *config.InternalConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	switch internalConfig.App.Env {
	case "production":
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

package logger

import (
	"go.uber.org/zap"
)

// Init builds the process-wide zap logger and installs it via
// zap.ReplaceGlobals, so packages log through zap.L().
func Init(environment string) error {
	var (
		logger *zap.Logger
		err    error
	)

	if environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}

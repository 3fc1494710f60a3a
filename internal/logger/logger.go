package logger

import "go.uber.org/zap"

// New builds a named zap logger for the given environment. Development
// gets the human-readable console encoder, everything else the
// production JSON encoder.
func New(appEnv, service string) (*zap.Logger, error) {
	var cfg zap.Config
	if appEnv == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}

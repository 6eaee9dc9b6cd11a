package logger

import (
	"os"
	"strings"

	"github.com/curbz/notam-composer/internal/config"
	"github.com/sirupsen/logrus"
)

// Log is the process logger. It is the logrus standard logger, so package
// level logrus calls elsewhere share its level and formatter.
var Log = logrus.StandardLogger()

// Init applies the level and formatter from cfg.
func Init(cfg config.LogConfig) {
	Log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.Level, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	switch strings.ToLower(cfg.Environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Logger initialised: level %s, environment %s", Log.GetLevel(), cfg.Environment)
}

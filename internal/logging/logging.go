// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance. Init must run once at startup; until
// then it carries logrus defaults so early package init can still log.
var Log = logrus.New()

// Init applies the configured level and format. Level falls back to info
// when unparseable. Format "json" switches to the JSON formatter; anything
// else keeps the text formatter with full timestamps.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Log.SetOutput(os.Stdout)
}

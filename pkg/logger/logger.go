package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	base  *logrus.Logger
	info  *logrus.Entry
	warn  *logrus.Entry
	error *logrus.Entry
}

func New() *Logger {
	return NewWithLevel("info", "development")
}

// NewWithLevel builds a logger for the given level name. The production
// environment gets JSON output.
func NewWithLevel(level, environment string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)

	if strings.EqualFold(environment, "production") {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)

	return fromEntry(base, logrus.NewEntry(base))
}

func fromEntry(base *logrus.Logger, entry *logrus.Entry) *Logger {
	return &Logger{
		base:  base,
		info:  entry,
		warn:  entry,
		error: entry,
	}
}

// WithField returns a child logger that adds key=value to every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return fromEntry(l.base, logrus.NewEntry(l.base).WithFields(l.info.Data).WithField(key, value))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.info.Debugf(format, args...)
}

// Package logging consumes the core's LogMessage channel and writes it
// through logrus with rotated files, the same wrapper shape the
// retrieval pack's logrus_wrapper.go uses: a functional-options
// constructor over a rotatelogs-backed writer.
package logging

import (
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

type options struct {
	path       string
	expireDays int
	level      logrus.Level
}

type Option func(*options)

func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

func WithExpireDays(days int) Option {
	return func(o *options) { o.expireDays = days }
}

func WithLevel(level logrus.Level) Option {
	return func(o *options) { o.level = level }
}

// LevelFor maps the config's blunt verbose flag onto a logrus level,
// the same one-bit-to-level mapping redkit-server's main wires up.
func LevelFor(verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Sink owns the logrus.Logger the core's log channel is drained into.
// It has no notion of Severity or CmdError; it only knows LogLevel and
// text, keeping the core package free of any direct logrus import.
type Sink struct {
	logger *logrus.Logger
}

func NewSink(opts ...Option) (*Sink, error) {
	o := options{path: "redkit-server.log", expireDays: 7, level: logrus.InfoLevel}
	for _, apply := range opts {
		apply(&o)
	}

	writer, err := rotatelogs.New(
		o.path+".%Y%m%d",
		rotatelogs.WithLinkName(o.path),
		rotatelogs.WithMaxAge(time.Duration(o.expireDays)*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(writer)
	logger.SetLevel(o.level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Sink{logger: logger}, nil
}

// LogLevel mirrors redkit.LogLevel without importing the core package,
// so this package stays usable by anything else that wants a sink.
type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
)

func (s *Sink) Write(level LogLevel, text string) {
	switch level {
	case Debug:
		s.logger.Debug(text)
	case Info:
		s.logger.Info(text)
	case Warn:
		s.logger.Warn(text)
	case Error:
		s.logger.Error(text)
	default:
		s.logger.Info(text)
	}
}

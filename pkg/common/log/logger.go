/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"sync"

	"github.com/trustfabric/trustfabric-go/pkg/internal/logging/metadata"
	"github.com/trustfabric/trustfabric-go/pkg/internal/logging/modlog"
)

// Level defines all available log levels for logging messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO // default logging level
	DEBUG
)

// Logger - standard logger interface.
type Logger interface {
	// Fatalf is critical fatal logging, should possibly be followed by system shutdown
	Fatalf(msg string, args ...interface{})

	// Panicf is critical logging, should possibly be followed by panic
	Panicf(msg string, args ...interface{})

	// Debugf is for logging verbose messages
	Debugf(msg string, args ...interface{})

	// Infof is for logging general messages
	Infof(msg string, args ...interface{})

	// Warnf is for logging messages about possible issues
	Warnf(msg string, args ...interface{})

	// Errorf is for logging errors
	Errorf(msg string, args ...interface{})
}

// LoggerProvider is a factory for moduled loggers.
type LoggerProvider interface {
	GetLogger(module string) Logger
}

const loggerNotInitializedMsg = "Default logger initialized (please call log.Initialize() if you wish " +
	"to use a custom logger)"

//nolint:gochecknoglobals
var (
	loggerProviderInstance LoggerProvider
	loggerProviderOnce     sync.Once
)

// Log is an implementation of the Logger interface.
// It encapsulates a default or custom logger to provide module and level based logging.
type Log struct {
	instance Logger
	module   string
	once     sync.Once
}

// New creates and returns a Logger implementation based on given module name.
// note: the underlying logger instance is lazy initialized on first use.
// To use your own logger implementation provide a logger provider in 'Initialize()' before logging any line.
// If 'Initialize()' is not called before logging any line then the default logging implementation is used.
func New(module string) *Log {
	return &Log{module: module}
}

// Initialize sets the custom logger provider to be used by all moduled loggers.
// The provider takes effect only if called before any logging happens; loggers
// already bound keep their instance.
func Initialize(p LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = &modLogProvider{custom: p}
	})
}

// Fatalf calls Fatalf function of the underlying logger,
// should possibly cause system shutdown based on implementation.
func (l *Log) Fatalf(msg string, args ...interface{}) {
	l.logger().Fatalf(msg, args...)
}

// Panicf calls Panicf function of the underlying logger,
// should possibly cause panic based on implementation.
func (l *Log) Panicf(msg string, args ...interface{}) {
	l.logger().Panicf(msg, args...)
}

// Debugf calls Debugf function of the underlying logger.
func (l *Log) Debugf(msg string, args ...interface{}) {
	l.logger().Debugf(msg, args...)
}

// Infof calls Infof function of the underlying logger.
func (l *Log) Infof(msg string, args ...interface{}) {
	l.logger().Infof(msg, args...)
}

// Warnf calls Warnf function of the underlying logger.
func (l *Log) Warnf(msg string, args ...interface{}) {
	l.logger().Warnf(msg, args...)
}

// Errorf calls Errorf function of the underlying logger.
func (l *Log) Errorf(msg string, args ...interface{}) {
	l.logger().Errorf(msg, args...)
}

func (l *Log) logger() Logger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})

	return l.instance
}

func loggerProvider() LoggerProvider {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = &modLogProvider{}
		loggerProviderInstance.GetLogger("trustfabric/common").Debugf(loggerNotInitializedMsg)
	})

	return loggerProviderInstance
}

// modLogProvider returns moduled loggers backed either by a custom provider
// or by the default stdlib-based implementation.
type modLogProvider struct {
	custom LoggerProvider
}

func (p *modLogProvider) GetLogger(module string) Logger {
	if p.custom != nil {
		return modlog.NewModLog(p.custom.GetLogger(module), module)
	}

	return modlog.NewDefLog(module)
}

// SetLevel - setting log level for given module.
// If not set, the default logging level is info.
func SetLevel(module string, level Level) {
	metadata.SetLevel(module, metadata.Level(level))
}

// GetLevel - getting log level for given module.
// If not set, the default logging level is info.
func GetLevel(module string) Level {
	return Level(metadata.GetLevel(module))
}

// IsEnabledFor - Check if given log level is enabled for given module.
// If not set, the default logging level is info.
func IsEnabledFor(module string, level Level) bool {
	return metadata.IsEnabledFor(module, metadata.Level(level))
}

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	l, err := metadata.ParseLevel(level)

	return Level(l), err
}

// ShowCallerInfo - Show caller info in log lines for given log level and module.
// note: based on implementation of custom logger, caller info may not be available for custom logging provider.
func ShowCallerInfo(module string, level Level) {
	metadata.ShowCallerInfo(module, metadata.Level(level))
}

// HideCallerInfo - Do not show caller info in log lines for given log level and module.
// note: based on implementation of custom logger, caller info may not be available for custom logging provider.
func HideCallerInfo(module string, level Level) {
	metadata.HideCallerInfo(module, metadata.Level(level))
}

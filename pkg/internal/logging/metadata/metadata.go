/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"errors"
	"strings"
	"sync"
)

// Level defines all available log levels for logging messages.
type Level int

// Log levels.
// note: below constants are a copy of 'log.Level' constants added to avoid circular references,
// care should be taken before changing below constants including their order.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO // default logging level
	DEBUG
)

const (
	defaultLogLevel   = INFO
	defaultModuleName = ""
)

//nolint:gochecknoglobals
var levelNames = []string{
	"CRITICAL",
	"ERROR",
	"WARNING",
	"INFO",
	"DEBUG",
}

//nolint:gochecknoglobals
var (
	rwmutex     = &sync.RWMutex{}
	levels      = &moduleLevels{levels: make(map[string]Level)}
	callerInfos = &callerInfo{}
)

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, level) {
			return Level(i), nil
		}
	}

	return ERROR, errors.New("logger: invalid log level")
}

// ParseString returns string representation of given log level.
func ParseString(level Level) string {
	return levelNames[level]
}

// SetLevel - setting log level for given module.
func SetLevel(module string, level Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	levels.SetLevel(module, level)
}

// GetLevel - getting log level for given module.
func GetLevel(module string) Level {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return levels.GetLevel(module)
}

// IsEnabledFor - Check if given log level is enabled for given module.
func IsEnabledFor(module string, level Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return levels.IsEnabledFor(module, level)
}

// ShowCallerInfo - Show caller info in log lines for given log level and module.
func ShowCallerInfo(module string, level Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	callerInfos.ShowCallerInfo(module, level)
}

// HideCallerInfo - Do not show caller info in log lines for given log level and module.
func HideCallerInfo(module string, level Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	callerInfos.HideCallerInfo(module, level)
}

// IsCallerInfoEnabled - returns if caller info enabled for given log level and module.
func IsCallerInfoEnabled(module string, level Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return callerInfos.IsCallerInfoEnabled(module, level)
}

// moduleLevels maintains log levels based on modules.
type moduleLevels struct {
	levels map[string]Level
}

// GetLevel returns the log level for given module and level.
func (l *moduleLevels) GetLevel(module string) Level {
	level, exists := l.levels[module]
	if !exists {
		level, exists = l.levels[defaultModuleName]
		// no configuration exists, default to info
		if !exists {
			return defaultLogLevel
		}
	}

	return level
}

// SetLevel sets the log level for given module and level.
func (l *moduleLevels) SetLevel(module string, level Level) {
	l.levels[module] = level
}

// IsEnabledFor will return true if logging is enabled for given module and level.
func (l *moduleLevels) IsEnabledFor(module string, level Level) bool {
	return level <= l.GetLevel(module)
}

type callerInfoKey struct {
	module string
	level  Level
}

// callerInfo maintains module-level based settings to show or hide caller info.
type callerInfo struct {
	showcaller map[callerInfoKey]bool
}

// ShowCallerInfo enables caller info for given module and level.
func (l *callerInfo) ShowCallerInfo(module string, level Level) {
	if l.showcaller == nil {
		l.showcaller = l.defaultCallerInfoSetting()
	}

	l.showcaller[callerInfoKey{module, level}] = true
}

// HideCallerInfo disables caller info for given module and level.
func (l *callerInfo) HideCallerInfo(module string, level Level) {
	if l.showcaller == nil {
		l.showcaller = l.defaultCallerInfoSetting()
	}

	l.showcaller[callerInfoKey{module, level}] = false
}

// IsCallerInfoEnabled returns if caller info enabled for given module and level.
func (l *callerInfo) IsCallerInfoEnabled(module string, level Level) bool {
	if l.showcaller == nil {
		l.showcaller = l.defaultCallerInfoSetting()
	}

	showcaller, exists := l.showcaller[callerInfoKey{module, level}]
	if !exists {
		// no caller info setting exists for given module, look for default
		return l.showcaller[callerInfoKey{defaultModuleName, level}]
	}

	return showcaller
}

func (l *callerInfo) defaultCallerInfoSetting() map[callerInfoKey]bool {
	return map[callerInfoKey]bool{
		{defaultModuleName, CRITICAL}: true,
		{defaultModuleName, ERROR}:    true,
		{defaultModuleName, WARNING}:  true,
		{defaultModuleName, INFO}:     true,
		{defaultModuleName, DEBUG}:    true,
	}
}

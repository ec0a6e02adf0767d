/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/trustfabric/trustfabric-go/pkg/internal/logging/metadata"
)

const (
	logLevelFormatter   = "UTC %s-> %s "
	logPrefixFormatter  = " [%s] "
	callerInfoFormatter = "- %s "
)

// NewDefLog returns a default logger implementation for the given module,
// backed by the standard library logger writing to stdout.
func NewDefLog(module string) *DefLog {
	logger := log.New(os.Stdout, fmt.Sprintf(logPrefixFormatter, module), log.Ldate|log.Ltime|log.LUTC)

	return &DefLog{logger: logger, module: module}
}

// DefLog is a standard default logger implementation.
type DefLog struct {
	logger *log.Logger
	module string
}

// Fatalf is CRITICAL log formatted followed by a call to os.Exit(1).
func (l *DefLog) Fatalf(format string, args ...interface{}) {
	l.logf(metadata.CRITICAL, format, args...)
	os.Exit(1)
}

// Panicf is CRITICAL log formatted followed by a call to panic().
func (l *DefLog) Panicf(format string, args ...interface{}) {
	l.logf(metadata.CRITICAL, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Debugf is for logging verbose messages.
// Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Debugf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(l.module, metadata.DEBUG) {
		return
	}

	l.logf(metadata.DEBUG, format, args...)
}

// Infof is for logging general information messages.
// INFO is the default logging level. Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Infof(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(l.module, metadata.INFO) {
		return
	}

	l.logf(metadata.INFO, format, args...)
}

// Warnf is for logging messages about possible issues.
// Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Warnf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(l.module, metadata.WARNING) {
		return
	}

	l.logf(metadata.WARNING, format, args...)
}

// Errorf is for logging errors.
// Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Errorf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(l.module, metadata.ERROR) {
		return
	}

	l.logf(metadata.ERROR, format, args...)
}

// ChangeOutput changes the output destination for the logger.
func (l *DefLog) ChangeOutput(output io.Writer) {
	l.logger.SetOutput(output)
}

func (l *DefLog) logf(level metadata.Level, format string, args ...interface{}) {
	// prefix shows the caller function, the log level, and that the timezone used is UTC
	customPrefix := fmt.Sprintf(logLevelFormatter, l.callerInfo(level), metadata.ParseString(level))

	err := l.logger.Output(2, customPrefix+fmt.Sprintf(format, args...)) //nolint:gomnd
	if err != nil {
		fmt.Printf("error from logger.Output %v\n", err)
	}
}

func (l *DefLog) callerInfo(level metadata.Level) string {
	if !metadata.IsCallerInfoEnabled(l.module, level) {
		return ""
	}

	const (
		maxCallers   = 6 // search up to maxCallers frames for the real caller
		skipCallers  = 4 // frames to skip before the real caller can appear
		notFound     = "n/a"
		modLogPrefix = "modlog.(*ModLog)"
	)

	fpcs := make([]uintptr, maxCallers)

	n := runtime.Callers(skipCallers, fpcs)
	if n == 0 {
		return fmt.Sprintf(callerInfoFormatter, notFound)
	}

	frames := runtime.CallersFrames(fpcs[:n])
	funcIsNext := false

	for f, more := frames.Next(); more; f, more = frames.Next() {
		_, fnName := filepath.Split(f.Function)

		if f.Func == nil || f.Function == "" {
			fnName = notFound // not a function or unknown
		}

		if funcIsNext {
			return fmt.Sprintf(callerInfoFormatter, fnName)
		}

		if strings.HasPrefix(fnName, modLogPrefix) {
			funcIsNext = true
			continue
		}

		return fmt.Sprintf(callerInfoFormatter, fnName)
	}

	return fmt.Sprintf(callerInfoFormatter, notFound)
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"github.com/trustfabric/trustfabric-go/pkg/internal/logging/metadata"
)

// Logger is the underlying logger contract wrapped by moduled loggers.
type Logger interface {
	Fatalf(msg string, args ...interface{})
	Panicf(msg string, args ...interface{})
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// NewModLog returns a moduled wrapper over the given logger implementation.
// It adds module-based level filtering on top of the provider logger.
func NewModLog(logger Logger, module string) *ModLog {
	return &ModLog{logger: logger, module: module}
}

// ModLog is a moduled wrapper for an underlying logger implementation.
type ModLog struct {
	logger Logger
	module string
}

// Fatalf calls underlying logger.Fatalf.
func (m *ModLog) Fatalf(format string, args ...interface{}) {
	m.logger.Fatalf(format, args...)
}

// Panicf calls underlying logger.Panicf.
func (m *ModLog) Panicf(format string, args ...interface{}) {
	m.logger.Panicf(format, args...)
}

// Debugf calls underlying logger.Debugf if DEBUG level enabled.
func (m *ModLog) Debugf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(m.module, metadata.DEBUG) {
		return
	}

	m.logger.Debugf(format, args...)
}

// Infof calls underlying logger.Infof if INFO level enabled.
func (m *ModLog) Infof(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(m.module, metadata.INFO) {
		return
	}

	m.logger.Infof(format, args...)
}

// Warnf calls underlying logger.Warnf if WARNING level enabled.
func (m *ModLog) Warnf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(m.module, metadata.WARNING) {
		return
	}

	m.logger.Warnf(format, args...)
}

// Errorf calls underlying logger.Errorf if ERROR level enabled.
func (m *ModLog) Errorf(format string, args ...interface{}) {
	if !metadata.IsEnabledFor(m.module, metadata.ERROR) {
		return
	}

	m.logger.Errorf(format, args...)
}

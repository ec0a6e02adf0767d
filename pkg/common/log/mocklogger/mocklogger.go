/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocklogger

import (
	"fmt"
	"sync"

	"github.com/trustfabric/trustfabric-go/pkg/common/log"
)

// MockLogger is a mocked logger that can be used for testing.
type MockLogger struct {
	AllLogContents string

	FatalLogContents string
	PanicLogContents string
	DebugLogContents string
	InfoLogContents  string
	WarnLogContents  string
	ErrorLogContents string

	mu sync.Mutex
}

// Fatalf records a formatted fatal log line.
func (m *MockLogger) Fatalf(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.FatalLogContents += line
	m.AllLogContents += line
}

// Panicf records a formatted panic log line.
func (m *MockLogger) Panicf(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.PanicLogContents += line
	m.AllLogContents += line
}

// Debugf records a formatted debug log line.
func (m *MockLogger) Debugf(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.DebugLogContents += line
	m.AllLogContents += line
}

// Infof records a formatted info log line.
func (m *MockLogger) Infof(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.InfoLogContents += line
	m.AllLogContents += line
}

// Warnf records a formatted warning log line.
func (m *MockLogger) Warnf(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.WarnLogContents += line
	m.AllLogContents += line
}

// Errorf records a formatted error log line.
func (m *MockLogger) Errorf(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := fmt.Sprintf(msg, args...)
	m.ErrorLogContents += line
	m.AllLogContents += line
}

// Provider is a mock logger provider that can be used for testing.
type Provider struct {
	MockLogger *MockLogger
}

// GetLogger returns the mock logger held by the provider.
func (p *Provider) GetLogger(string) log.Logger {
	return p.MockLogger
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statuslist provides a mock status list manager for testing.
package statuslist

import (
	"github.com/trustfabric/trustfabric-go/pkg/statuslist"
)

// MockManager is a mock status list manager. Each operation can be failed
// independently; otherwise calls delegate to Delegate when one is set.
type MockManager struct {
	Delegate statuslist.Manager

	CreateErr error
	GetErr    error
	RevokeErr error
	StatusErr error
}

// CreateStatusList delegates unless CreateErr is set.
func (m *MockManager) CreateStatusList(issuerDID string, purpose statuslist.Purpose,
	size int) (*statuslist.StatusList, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	return m.Delegate.CreateStatusList(issuerDID, purpose, size)
}

// GetStatusList delegates unless GetErr is set.
func (m *MockManager) GetStatusList(statusListID string) (*statuslist.StatusList, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	return m.Delegate.GetStatusList(statusListID)
}

// RevokeCredential delegates unless RevokeErr is set.
func (m *MockManager) RevokeCredential(credentialID, statusListID string) (bool, error) {
	if m.RevokeErr != nil {
		return false, m.RevokeErr
	}

	return m.Delegate.RevokeCredential(credentialID, statusListID)
}

// SuspendCredential delegates unless RevokeErr is set.
func (m *MockManager) SuspendCredential(credentialID, statusListID string) (bool, error) {
	if m.RevokeErr != nil {
		return false, m.RevokeErr
	}

	return m.Delegate.SuspendCredential(credentialID, statusListID)
}

// RevokeCredentials delegates unless RevokeErr is set.
func (m *MockManager) RevokeCredentials(credentialIDs []string,
	statusListID string) (map[string]bool, error) {
	if m.RevokeErr != nil {
		return nil, m.RevokeErr
	}

	return m.Delegate.RevokeCredentials(credentialIDs, statusListID)
}

// UpdateStatusListBatch delegates unless RevokeErr is set.
func (m *MockManager) UpdateStatusListBatch(statusListID string, updates []statuslist.Update) error {
	if m.RevokeErr != nil {
		return m.RevokeErr
	}

	return m.Delegate.UpdateStatusListBatch(statusListID, updates)
}

// CredentialStatus delegates unless StatusErr is set.
func (m *MockManager) CredentialStatus(credentialID, statusListID string) (*statuslist.Status, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}

	return m.Delegate.CredentialStatus(credentialID, statusListID)
}

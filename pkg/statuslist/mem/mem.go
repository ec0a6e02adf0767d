/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mem provides an in-memory statuslist.Manager, suitable for tests and
// single-process deployments.
package mem

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trustfabric/trustfabric-go/pkg/common/log"
	"github.com/trustfabric/trustfabric-go/pkg/statuslist"
)

var logger = log.New("trustfabric/statuslist")

// Manager is an in-memory status list store. Lists lock independently, so
// mutations against different lists never contend.
type Manager struct {
	mu    sync.RWMutex
	lists map[string]*list
}

type list struct {
	mu        sync.Mutex
	id        string
	issuerDID string
	purpose   statuslist.Purpose
	revoked   *statuslist.Bitstring
	suspended *statuslist.Bitstring
	indices   map[string]int // credential id -> assigned bit index
	nextIndex int
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewManager returns an empty in-memory status list manager.
func NewManager() *Manager {
	return &Manager{lists: make(map[string]*list)}
}

// CreateStatusList provisions a new list with a generated id.
func (m *Manager) CreateStatusList(issuerDID string, purpose statuslist.Purpose,
	size int) (*statuslist.StatusList, error) {
	if size <= 0 {
		return nil, fmt.Errorf("status list size must be positive, got %d", size)
	}

	now := time.Now()

	l := &list{
		id:        uuid.New().String(),
		issuerDID: issuerDID,
		purpose:   purpose,
		revoked:   statuslist.NewBitstring(size),
		suspended: statuslist.NewBitstring(size),
		indices:   make(map[string]int),
		createdAt: now,
		updatedAt: now,
	}

	m.mu.Lock()
	m.lists[l.id] = l
	m.mu.Unlock()

	logger.Debugf("created status list %s (issuer %s, purpose %s, size %d)", l.id, issuerDID, purpose, size)

	return l.snapshot(), nil
}

// GetStatusList returns a snapshot of the list.
func (m *Manager) GetStatusList(statusListID string) (*statuslist.StatusList, error) {
	l, err := m.list(statusListID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshot(), nil
}

// RevokeCredential sets the revoked bit for the credential.
func (m *Manager) RevokeCredential(credentialID, statusListID string) (bool, error) {
	return m.setBit(credentialID, statusListID, func(l *list, index int) (bool, error) {
		return l.revoked.Set(index, true)
	})
}

// SuspendCredential sets the suspended bit for the credential.
func (m *Manager) SuspendCredential(credentialID, statusListID string) (bool, error) {
	return m.setBit(credentialID, statusListID, func(l *list, index int) (bool, error) {
		return l.suspended.Set(index, true)
	})
}

// RevokeCredentials revokes a batch and reports the per-credential outcome.
// Credentials that cannot be assigned an index (list full) report false.
func (m *Manager) RevokeCredentials(credentialIDs []string, statusListID string) (map[string]bool, error) {
	l, err := m.list(statusListID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	result := make(map[string]bool, len(credentialIDs))

	for _, credentialID := range credentialIDs {
		index, err := l.index(credentialID)
		if err != nil {
			result[credentialID] = false
			continue
		}

		changed, err := l.revoked.Set(index, true)
		result[credentialID] = err == nil && changed
	}

	l.touch()

	return result, nil
}

// UpdateStatusListBatch applies a mixed batch of status transitions.
func (m *Manager) UpdateStatusListBatch(statusListID string, updates []statuslist.Update) error {
	l, err := m.list(statusListID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, update := range updates {
		index, err := l.index(update.CredentialID)
		if err != nil {
			return &statuslist.OperationError{StatusListID: statusListID, Cause: err}
		}

		switch update.Status {
		case statuslist.EntryRevoked:
			_, err = l.revoked.Set(index, true)
		case statuslist.EntrySuspended:
			_, err = l.suspended.Set(index, true)
		case statuslist.EntryActive:
			if _, err = l.revoked.Set(index, false); err == nil {
				_, err = l.suspended.Set(index, false)
			}
		default:
			err = fmt.Errorf("unknown entry status %d", update.Status)
		}

		if err != nil {
			return &statuslist.OperationError{StatusListID: statusListID, Cause: err}
		}
	}

	l.touch()

	return nil
}

// CredentialStatus reports the current bits for a credential. A credential the
// list has never tracked reports index -1 with clear bits.
func (m *Manager) CredentialStatus(credentialID, statusListID string) (*statuslist.Status, error) {
	l, err := m.list(statusListID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	status := &statuslist.Status{
		CredentialID: credentialID,
		StatusListID: statusListID,
		Index:        -1,
	}

	index, ok := l.indices[credentialID]
	if !ok {
		return status, nil
	}

	status.Index = index

	if status.Revoked, err = l.revoked.Get(index); err != nil {
		return nil, &statuslist.OperationError{StatusListID: statusListID, Cause: err}
	}

	if status.Suspended, err = l.suspended.Get(index); err != nil {
		return nil, &statuslist.OperationError{StatusListID: statusListID, Cause: err}
	}

	return status, nil
}

func (m *Manager) list(statusListID string) (*list, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lists[statusListID]
	if !ok {
		return nil, statuslist.ErrStatusListNotFound
	}

	return l, nil
}

func (m *Manager) setBit(credentialID, statusListID string,
	set func(l *list, index int) (bool, error)) (bool, error) {
	l, err := m.list(statusListID)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.index(credentialID)
	if err != nil {
		return false, &statuslist.OperationError{StatusListID: statusListID, Cause: err}
	}

	changed, err := set(l, index)
	if err != nil {
		return false, &statuslist.OperationError{StatusListID: statusListID, Cause: err}
	}

	l.touch()

	return changed, nil
}

// index returns the bit index assigned to the credential, assigning the next
// free one on first touch. The caller must hold l.mu.
func (l *list) index(credentialID string) (int, error) {
	if index, ok := l.indices[credentialID]; ok {
		return index, nil
	}

	if l.nextIndex >= l.revoked.Size() {
		return 0, statuslist.ErrStatusListFull
	}

	index := l.nextIndex
	l.nextIndex++
	l.indices[credentialID] = index

	return index, nil
}

func (l *list) touch() {
	l.version++
	l.updatedAt = time.Now()
}

// snapshot copies the list state. The caller must hold l.mu (or own the list
// exclusively, as in CreateStatusList).
func (l *list) snapshot() *statuslist.StatusList {
	return &statuslist.StatusList{
		ID:             l.id,
		IssuerDID:      l.issuerDID,
		Purpose:        l.purpose,
		Size:           l.revoked.Size(),
		EncodedList:    l.revoked.Encode(),
		Version:        l.version,
		CreatedAt:      l.createdAt,
		UpdatedAt:      l.updatedAt,
		UsedIndices:    len(l.indices),
		RevokedCount:   l.revoked.Count(),
		SuspendedCount: l.suspended.Count(),
	}
}

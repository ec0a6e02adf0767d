/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statuslist defines the off-chain status list contract: a mutable
// bitstring per status list tracking revoked and suspended credentials,
// referenced by index from issued credentials.
package statuslist

import (
	"errors"
	"fmt"
	"time"
)

// Purpose describes what an issued credential status entry asserts.
type Purpose string

// Status list purposes.
const (
	PurposeRevocation Purpose = "revocation"
	PurposeSuspension Purpose = "suspension"
)

// Status list errors.
var (
	// ErrStatusListNotFound is returned when the status list id is unknown.
	ErrStatusListNotFound = errors.New("status list not found")

	// ErrStatusListFull is returned when a list has no free index left.
	ErrStatusListFull = errors.New("status list capacity exhausted")
)

// OperationError wraps a failed status list operation with its list id.
type OperationError struct {
	StatusListID string
	Cause        error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("status list %s operation failed: %v", e.StatusListID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// StatusList is a point-in-time snapshot of one status list.
type StatusList struct {
	ID             string    `json:"id"`
	IssuerDID      string    `json:"issuer"`
	Purpose        Purpose   `json:"purpose"`
	Size           int       `json:"size"`
	EncodedList    string    `json:"encodedList"` // base64url (no padding) revocation bitstring
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	UsedIndices    int       `json:"-"`
	RevokedCount   int       `json:"-"`
	SuspendedCount int       `json:"-"`
}

// Status is the per-credential view of a status list entry. Index is -1 for a
// credential the list has never tracked; such a credential is neither revoked
// nor suspended.
type Status struct {
	CredentialID string
	StatusListID string
	Index        int
	Revoked      bool
	Suspended    bool
}

// EntryStatus is the target state of a batch update entry.
type EntryStatus int

// Batch update target states.
const (
	// EntryActive clears both the revoked and suspended bits.
	EntryActive EntryStatus = iota
	EntryRevoked
	EntrySuspended
)

// Update is one entry of a batch status list update.
type Update struct {
	CredentialID string
	Status       EntryStatus
}

// Statistics summarizes status list usage.
type Statistics struct {
	TotalCapacity    int
	UsedIndices      int
	RevokedCount     int
	AvailableIndices int
}

// Manager is the off-chain status list store. Implementations mutate status
// bits without any chain interaction; tamper-evidence comes from anchoring the
// digest of a list snapshot separately. Implementations must be safe for
// concurrent use.
type Manager interface {
	// CreateStatusList provisions a new list of the given capacity.
	CreateStatusList(issuerDID string, purpose Purpose, size int) (*StatusList, error)

	// GetStatusList returns a snapshot of the list.
	GetStatusList(statusListID string) (*StatusList, error)

	// RevokeCredential sets the revoked bit for the credential, assigning an
	// index on first touch. It returns true when the bit transitioned.
	RevokeCredential(credentialID, statusListID string) (bool, error)

	// SuspendCredential sets the suspended bit for the credential.
	SuspendCredential(credentialID, statusListID string) (bool, error)

	// RevokeCredentials revokes a batch and reports the per-credential outcome.
	RevokeCredentials(credentialIDs []string, statusListID string) (map[string]bool, error)

	// UpdateStatusListBatch applies a mixed batch of status transitions.
	UpdateStatusListBatch(statusListID string, updates []Update) error

	// CredentialStatus reports the current bits for a credential. Unknown
	// credentials are a normal outcome, not an error.
	CredentialStatus(credentialID, statusListID string) (*Status, error)
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anchor defines on-chain anchoring primitives: the anchor client
// contract, anchor bookkeeping types and the anchor-timing strategies.
package anchor

import (
	"context"
	"time"
)

// MediaTypeJSON is the payload media type used for anchor documents.
const MediaTypeJSON = "application/json"

// Ref identifies a confirmed on-chain write.
type Ref struct {
	ChainID    string                 `json:"chainId"`
	TxHash     string                 `json:"txHash"`
	ContractID string                 `json:"contractId,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Record is the bookkeeping entry for one successful anchor write. Records are
// immutable once created; a newer anchor supersedes rather than mutates.
type Record struct {
	ID           string    `json:"id"`
	StatusListID string    `json:"statusListId"`
	Ref          Ref       `json:"ref"`
	Digest       string    `json:"digest"`
	AnchoredAt   time.Time `json:"anchoredAt"`
}

// PendingAnchor tracks status-list mutations accumulated since the last
// successful on-chain commit. LastAnchorAt is nil until the first anchor.
type PendingAnchor struct {
	StatusListID string
	UpdateCount  int
	LastUpdateAt time.Time
	LastAnchorAt *time.Time
}

// Client writes opaque payloads to a blockchain and reads them back. This is a
// consumed interface: concrete chain RPC clients live outside this module.
// WritePayload is the only meaningfully blocking operation in the toolkit and
// must honor ctx cancellation.
type Client interface {
	WritePayload(ctx context.Context, payload []byte, mediaType string) (*Ref, error)
	ReadPayload(ctx context.Context, ref *Ref) ([]byte, error)
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anchor provides a mock anchor client for testing.
package anchor

import (
	"context"
	"fmt"
	"sync"

	"github.com/trustfabric/trustfabric-go/pkg/anchor"
)

// MockClient is a mock blockchain anchor client.
type MockClient struct {
	// WritePayloadFunc overrides WritePayload entirely when set.
	WritePayloadFunc func(ctx context.Context, payload []byte, mediaType string) (*anchor.Ref, error)

	// ReadPayloadFunc overrides ReadPayload entirely when set.
	ReadPayloadFunc func(ctx context.Context, ref *anchor.Ref) ([]byte, error)

	// WriteErr fails WritePayload when set (and WritePayloadFunc is unset).
	WriteErr error

	// ChainID stamped on returned refs, "algorand:testnet" when empty.
	ChainID string

	mu       sync.Mutex
	writes   int
	payloads [][]byte
}

// WritePayload records the payload and returns a synthetic transaction ref.
func (m *MockClient) WritePayload(ctx context.Context, payload []byte, mediaType string) (*anchor.Ref, error) {
	if m.WritePayloadFunc != nil {
		return m.WritePayloadFunc(ctx, payload, mediaType)
	}

	if m.WriteErr != nil {
		return nil, m.WriteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	m.payloads = append(m.payloads, payload)

	chainID := m.ChainID
	if chainID == "" {
		chainID = "algorand:testnet"
	}

	return &anchor.Ref{
		ChainID: chainID,
		TxHash:  fmt.Sprintf("tx-%d", m.writes),
	}, nil
}

// ReadPayload returns the most recently written payload.
func (m *MockClient) ReadPayload(ctx context.Context, ref *anchor.Ref) ([]byte, error) {
	if m.ReadPayloadFunc != nil {
		return m.ReadPayloadFunc(ctx, ref)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.payloads) == 0 {
		return nil, fmt.Errorf("no payload anchored for ref %+v", ref)
	}

	return m.payloads[len(m.payloads)-1], nil
}

// WriteCount returns the number of successful writes.
func (m *MockClient) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}

// Payloads returns all recorded payloads in write order.
func (m *MockClient) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	payloads := make([][]byte, len(m.payloads))
	copy(payloads, m.payloads)

	return payloads
}

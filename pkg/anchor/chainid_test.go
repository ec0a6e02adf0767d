/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustfabric/trustfabric-go/pkg/anchor"
)

func TestParseChainID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			chainID   string
			namespace string
			reference string
		}{
			{"algorand:testnet", "algorand", "testnet"},
			{"eip155:1", "eip155", "1"},
			{"cosmos:cosmoshub-4", "cosmos", "cosmoshub-4"},
		}

		for _, tc := range tests {
			parsed, err := anchor.ParseChainID(tc.chainID)
			require.NoError(t, err, tc.chainID)
			require.Equal(t, tc.namespace, parsed.Namespace)
			require.Equal(t, tc.reference, parsed.Reference)
			require.Equal(t, tc.chainID, parsed.String())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		invalid := []string{
			"",
			"nosubdelimiter",
			"UPPER:ref",
			"ab:ref",                // namespace too short
			"toolongnamespace:ref",  // namespace too long
			"eip155:",                             // empty reference
			"eip155:" + strings.Repeat("a", 40),   // reference too long
		}

		for _, chainID := range invalid {
			_, err := anchor.ParseChainID(chainID)
			require.Error(t, err, "expected %q to be rejected", chainID)
		}
	})
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"fmt"
	"regexp"
)

// chain IDs follow CAIP-2: namespace ":" reference, e.g. "algorand:testnet", "eip155:1".
var chainIDRegex = regexp.MustCompile(`^([-a-z0-9]{3,8}):([-_a-zA-Z0-9]{1,32})$`)

// ChainID is a parsed CAIP-2 chain identifier.
type ChainID struct {
	Namespace string
	Reference string
}

// ParseChainID parses and validates a CAIP-2 chain identifier string.
func ParseChainID(chainID string) (*ChainID, error) {
	match := chainIDRegex.FindStringSubmatch(chainID)
	if match == nil {
		return nil, fmt.Errorf("invalid CAIP-2 chain id %q", chainID)
	}

	return &ChainID{Namespace: match[1], Reference: match[2]}, nil
}

// String returns the CAIP-2 string form.
func (c ChainID) String() string {
	return c.Namespace + ":" + c.Reference
}

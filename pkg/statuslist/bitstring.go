/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statuslist

import (
	"encoding/base64"
	"fmt"
)

// Bitstring is a fixed-capacity bit array backing one status dimension of a
// status list. The zero bit means "not set". It is not safe for concurrent
// use; callers own the locking.
type Bitstring struct {
	bits []byte
	size int
}

// NewBitstring returns a bitstring with capacity for size bits, all clear.
func NewBitstring(size int) *Bitstring {
	return &Bitstring{
		bits: make([]byte, (size+7)/8),
		size: size,
	}
}

// Size returns the bit capacity.
func (b *Bitstring) Size() int {
	return b.size
}

// Set sets or clears the bit at index and reports whether the bit changed.
func (b *Bitstring) Set(index int, value bool) (bool, error) {
	if index < 0 || index >= b.size {
		return false, fmt.Errorf("bit index %d out of range [0,%d)", index, b.size)
	}

	mask := byte(1) << uint(index%8)
	old := b.bits[index/8]&mask != 0

	if value {
		b.bits[index/8] |= mask
	} else {
		b.bits[index/8] &^= mask
	}

	return old != value, nil
}

// Get returns the bit at index.
func (b *Bitstring) Get(index int) (bool, error) {
	if index < 0 || index >= b.size {
		return false, fmt.Errorf("bit index %d out of range [0,%d)", index, b.size)
	}

	return b.bits[index/8]&(byte(1)<<uint(index%8)) != 0, nil
}

// Count returns the number of set bits.
func (b *Bitstring) Count() int {
	count := 0

	for _, octet := range b.bits {
		for octet != 0 {
			count += int(octet & 1)
			octet >>= 1
		}
	}

	return count
}

// Encode returns the unpadded base64url encoding of the raw bit array.
func (b *Bitstring) Encode() string {
	return base64.RawURLEncoding.EncodeToString(b.bits)
}

// DecodeBitstring rebuilds a bitstring of the given size from its Encode form.
func DecodeBitstring(encoded string, size int) (*Bitstring, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode bitstring: %w", err)
	}

	if len(raw) != (size+7)/8 {
		return nil, fmt.Errorf("bitstring length %d does not match size %d", len(raw), size)
	}

	return &Bitstring{bits: raw, size: size}, nil
}

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package trustfabric enables Go developers to build decentralized identity
// trust infrastructure: canonical document digests, blockchain-anchored
// revocation registries and web-of-trust issuer resolution.
//
// Packages for end developer usage
//
// pkg/doc/digest: Computes cached multibase digests over the canonical JSON
// form of identity documents, so equivalent documents always digest to the
// same value.
//
// pkg/revocation: The blockchain-backed revocation registry. Status mutations
// go to an off-chain status list store and a digest of the list is anchored
// on-chain when the configured timing strategy says the updates are due.
//
// pkg/trust: A web-of-trust registry resolving whether an issuer is trusted
// for a credential type, directly or through a scored trust path.
//
// Basic workflow
//
//      1) Create a statuslist.Manager (pkg/statuslist/mem for in-memory use).
//      2) Create a revocation.Registry with your anchor client and strategy.
//      3) Issue status list entries and revoke or suspend credentials.
//      4) Verifiers call CheckRevocationStatus or CheckRevocationOnChain.
package trustfabric

/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package trust

const (
	minTrustScore = 0.1
	maxTrustScore = 1.0
)

// TrustPath runs a breadth-first search over trust relationship edges from
// verifierDID and returns the first (hence shortest) path to issuerDID, or nil
// when the issuer is unreachable. Edges are visited in insertion order, so
// among equal-length paths the one through the earliest-registered edge wins,
// deterministically for a given insertion sequence.
//
// A query for a DID against itself returns a single-element path with score
// 1.0, matching direct anchor membership.
func (r *Registry) TrustPath(verifierDID, issuerDID string) *Path {
	if verifierDID == "" || issuerDID == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if verifierDID == issuerDID {
		return &Path{Path: []string{verifierDID}, TrustScore: maxTrustScore, Valid: true}
	}

	visited := map[string]bool{verifierDID: true}
	parent := make(map[string]string)
	queue := []string{verifierDID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range r.edges[current] {
			if visited[next] {
				continue
			}

			visited[next] = true
			parent[next] = current

			if next == issuerDID {
				path := buildPath(parent, verifierDID, issuerDID)

				return &Path{
					Path:       path,
					TrustScore: scoreForHops(len(path) - 1),
					Valid:      true,
				}
			}

			queue = append(queue, next)
		}
	}

	return nil
}

func buildPath(parent map[string]string, from, to string) []string {
	var reversed []string

	for cur := to; ; cur = parent[cur] {
		reversed = append(reversed, cur)

		if cur == from {
			break
		}
	}

	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}

	return path
}

// scoreForHops decays trust by path length: a direct edge scores 1.0, each
// further hop costs 0.2 down to 0.4 at four hops, then 0.1 per hop with a
// floor of 0.1.
func scoreForHops(hops int) float64 {
	var score float64

	switch {
	case hops <= 1:
		score = 1.0
	case hops == 2:
		score = 0.8
	case hops == 3:
		score = 0.6
	case hops == 4:
		score = 0.4
	default:
		score = 0.4 - 0.1*float64(hops-4)
	}

	if score < minTrustScore {
		return minTrustScore
	}

	if score > maxTrustScore {
		return maxTrustScore
	}

	return score
}

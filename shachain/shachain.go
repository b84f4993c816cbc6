// Package shachain implements the compressed per-commitment-secret storage
// scheme used to revoke old commitment transactions: a producer derives up
// to 2^48 secrets from a single 32-byte seed by selectively flipping bits,
// and a store retains only O(log N) of the secrets it has been given while
// still being able to reproduce any of them on demand.
package shachain

import (
	"crypto/sha256"
	"fmt"
)

// maxHeight is the number of bits flipped between a seed and its
// derived secrets. BOLT3 reserves the top 16 bits of the 64-bit index
// space, leaving 48 usable levels.
const maxHeight = 48

// hash is the secret type this package traffics in - always the SHA256
// output of a derivation chain, never the engine's semantic HTLC or
// revocation preimages.
type hash [32]byte

// Producer derives the per-commitment secret for any index descending from
// a single root seed. Commitment index 0 is the first secret handed out;
// each subsequent index flips one additional low bit, which is what lets
// Store reconstruct any earlier secret from a later one.
type Producer struct {
	root hash
}

// NewProducer returns a Producer rooted at seed.
func NewProducer(seed [32]byte) *Producer {
	return &Producer{root: hash(seed)}
}

// flip returns in with bit index toggled, counting from the most
// significant bit of in's first byte (bit 0 is the top bit of in[0]).
func flip(in hash, index uint8) hash {
	byteIndex := index / 8
	bitIndex := index % 8
	in[byteIndex] ^= 1 << (7 - bitIndex)
	return in
}

// derive walks from root down to the secret for commitIndex, flipping one
// bit and re-hashing at each level the index asks for.
func derive(root hash, commitIndex uint64) hash {
	secret := root
	for i := uint8(0); i < maxHeight; i++ {
		if commitIndex&(1<<(maxHeight-1-i)) == 0 {
			continue
		}
		secret = flip(secret, i)
		secret = sha256.Sum256(secret[:])
	}
	return secret
}

// At returns the per-commitment secret for commitIndex.
func (p *Producer) At(commitIndex uint64) [32]byte {
	return derive(p.root, commitIndex)
}

// node is one retained (height, index, secret) triple. height records how
// many of commitIndex's low bits were fixed when this secret was derived -
// equivalently, how many trailing zero bits commitIndex has among the bits
// this package cares about.
type node struct {
	height uint8
	index  uint64
	secret hash
}

// Store is the receiving side's compressed accumulator: a stored node can
// rederive the secret of any index it is an ancestor of (same high bits,
// fewer trailing zero bits), so adding a secret drops every node it can
// rederive. Fed consecutive descending indices it retains at most
// maxHeight+1 nodes; indices with gaps between them can leave more.
type Store struct {
	nodes        []node
	maxIndexSeen uint64
	empty        bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{empty: true}
}

// canDerive reports whether fromIndex is an ancestor of toIndex in the
// derivation tree (so toIndex's secret can be derived from fromIndex's),
// returning the number of "flip" levels between them; it returns false
// when toIndex's secret cannot be derived from fromIndex's.
func canDerive(fromIndex uint64, toIndex uint64) (uint8, bool) {
	xor := fromIndex ^ toIndex
	if xor == 0 {
		return 0, true
	}

	// fromIndex must agree with toIndex on every bit above the highest
	// set bit of xor, and every bit of fromIndex below that point must
	// be zero - otherwise fromIndex isn't an ancestor of toIndex in the
	// derivation tree.
	height := uint8(64 - leadingZeros64(xor))
	mask := uint64(1)<<height - 1
	if fromIndex&mask != 0 {
		return 0, false
	}
	return height, true
}

func leadingZeros64(x uint64) int {
	n := 0
	for i := 63; i >= 0; i-- {
		if x&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

// rederive produces the secret for toIndex given a retained secret known to
// be valid at fromIndex, continuing the derivation from the point fromIndex
// left off and flipping whichever further bits toIndex sets.
func rederive(fromSecret hash, fromIndex, toIndex uint64) hash {
	height, ok := canDerive(fromIndex, toIndex)
	if !ok {
		panic("shachain: rederive called on a non-ancestor index")
	}

	secret := fromSecret
	for i := uint8(maxHeight) - height; i < maxHeight; i++ {
		bitPos := maxHeight - 1 - i
		if toIndex&(1<<uint(bitPos)) == 0 {
			continue
		}
		secret = flip(secret, i)
		secret = sha256.Sum256(secret[:])
	}
	return secret
}

// AddSecret inserts the secret revealed for commitIndex, verifying it
// against every retained secret it can rederive and discarding those
// nodes, since the new secret makes it possible to recompute them. A
// retained secret whose index the new one is not an ancestor of is kept
// unchecked. Commit indices
// must be supplied in strictly descending order, matching how a real
// per-commitment counter winds down from its starting value.
func (s *Store) AddSecret(commitIndex uint64, secret [32]byte) error {
	if !s.empty && commitIndex >= s.maxIndexSeen {
		return fmt.Errorf("shachain: index %d is not older than last "+
			"seen index %d", commitIndex, s.maxIndexSeen)
	}

	newNode := node{index: commitIndex, secret: hash(secret)}
	newNode.height = trailingZeros(commitIndex)

	// Verify against every existing node that shares ancestry with the
	// new one, and drop nodes now subsumed by it.
	kept := s.nodes[:0]
	for _, n := range s.nodes {
		if _, ok := canDerive(newNode.index, n.index); ok {
			want := rederive(newNode.secret, newNode.index, n.index)
			if want != n.secret {
				return fmt.Errorf("shachain: secret for index "+
					"%d does not match previously stored "+
					"secret for descendant index %d",
					commitIndex, n.index)
			}
			continue
		}
		kept = append(kept, n)
	}

	s.nodes = append(kept, newNode)
	s.maxIndexSeen = commitIndex
	s.empty = false
	return nil
}

func trailingZeros(index uint64) uint8 {
	if index == 0 {
		return maxHeight
	}
	n := uint8(0)
	for index&1 == 0 && n < maxHeight {
		n++
		index >>= 1
	}
	return n
}

// LookUp returns the secret for commitIndex if it has been stored or can be
// derived from a stored ancestor, and false otherwise.
func (s *Store) LookUp(commitIndex uint64) ([32]byte, bool) {
	for _, n := range s.nodes {
		if n.index == commitIndex {
			return n.secret, true
		}
		if _, ok := canDerive(n.index, commitIndex); ok {
			return rederive(n.secret, n.index, commitIndex), true
		}
	}
	return [32]byte{}, false
}

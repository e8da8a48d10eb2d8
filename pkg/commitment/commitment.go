// Copyright 2025 Certen Protocol
//
// Package commitment implements the validator's content-addressed hashing
// primitive: a domain-separated tagged hash, and Merkle aggregation over
// homogeneous leaves with a node-type tag and leaf-type tag (spec section
// 4.1). Every higher-level commitment (OpId, SchemaId, assignment and
// metadata leaves, global-state leaves) is built from this one primitive
// with a distinct tag, so that no two different structures can collide by
// construction.
//
// Adapted from the teacher's pkg/merkle/tree.go (binary tree, pairwise
// SHA-256 hashing, odd-node duplication) and pkg/commitment/commitment.go's
// hashing helpers, generalized to take an explicit domain tag and to mix a
// depth counter into each pairing the way BIP340-style tagged hashes do,
// rather than the teacher's untagged concatenate-and-SHA256 scheme.

package commitment

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// ID is a 32-byte content-addressed identifier.
type ID [32]byte

// IsZero reports whether id is the all-zero identifier (the fixed root of
// an empty collection).
func (id ID) IsZero() bool { return id == ID{} }

// HashTagged computes a BIP340-style tagged hash: the tag is hashed once to
// a 32-byte digest, that digest is used to prime both halves of the
// preimage, and data is appended once. This gives every distinct tag its
// own effectively independent hash function without needing a second
// primitive.
func HashTagged(tag string, data []byte) ID {
	tagHash := blake2b.Sum256([]byte(tag))

	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	h.Write(data)

	var out ID
	copy(out[:], h.Sum(nil))
	return out
}

// Leaf computes a tagged leaf hash for one entry of a homogeneous collection.
func Leaf(leafTag string, data []byte) ID {
	return HashTagged(leafTag, data)
}

// hashPair combines two node hashes at the given tree depth under nodeTag,
// mixing the depth into the preimage so that a pair-hash at depth 0 cannot
// collide with one at depth 1 for the same two children.
func hashPair(nodeTag string, depth uint32, left, right ID) ID {
	var depthBytes [4]byte
	binary.LittleEndian.PutUint32(depthBytes[:], depth)

	buf := make([]byte, 0, 4+32+32)
	buf = append(buf, depthBytes[:]...)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return HashTagged(nodeTag, buf)
}

// Root computes the Merkle root over leaves by iterative pairwise
// reduction: odd nodes at any level are paired with themselves, and an
// empty collection produces the fixed zero root.
func Root(nodeTag string, leaves []ID) ID {
	if len(leaves) == 0 {
		return ID{}
	}
	level := append([]ID(nil), leaves...)
	for depth := uint32(0); len(level) > 1; depth++ {
		next := make([]ID, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, hashPair(nodeTag, depth, level[i], level[i]))
			} else {
				next = append(next, hashPair(nodeTag, depth, level[i], level[i+1]))
			}
		}
		level = next
	}
	return level[0]
}

// MapRoot hashes each entry to a leaf under leafTag, then reduces the
// leaves to a single root under nodeTag. This is the convenience entry
// point most callers use: encode each map/set entry to canonical bytes,
// pass the resulting slice here.
func MapRoot(nodeTag, leafTag string, entries [][]byte) ID {
	leaves := make([]ID, 0, len(entries))
	for _, e := range entries {
		leaves = append(leaves, Leaf(leafTag, e))
	}
	return Root(nodeTag, leaves)
}

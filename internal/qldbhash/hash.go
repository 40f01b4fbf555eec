// Package qldbhash computes the commit digest the ledger service verifies
// at commit time.
//
// Every executed statement (and each of its parameters) is hashed with the
// Ion hash algorithm, folded together with Dot, and folded again into the
// transaction's running hash, which is seeded from the transaction id. The
// service maintains the same running hash and rejects a commit whose digest
// disagrees.
package qldbhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/amzn/ion-go/ion"
	ionhash "github.com/amzn/ion-hash-go"
)

// Hash is one node of the commit digest: the Ion hash of a single value,
// or the Dot fold of two such hashes. Immutable.
type Hash struct {
	digest []byte
}

// Of hashes a Go value by marshaling it to binary Ion first.
func Of(value any) (*Hash, error) {
	data, err := ion.MarshalBinary(value)
	if err != nil {
		return nil, fmt.Errorf("marshaling value to ion: %w", err)
	}
	return OfIonBinary(data)
}

// OfIonBinary hashes an already-encoded binary Ion value.
func OfIonBinary(data []byte) (*Hash, error) {
	reader, err := ionhash.NewHashReader(ion.NewReaderBytes(data), ionhash.NewCryptoHasherProvider(ionhash.SHA256))
	if err != nil {
		return nil, fmt.Errorf("creating ion hash reader: %w", err)
	}
	for reader.Next() {
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("traversing ion value: %w", err)
	}
	digest, err := reader.Sum(nil)
	if err != nil {
		return nil, fmt.Errorf("computing ion hash: %w", err)
	}
	return &Hash{digest: digest}, nil
}

// Dot folds two hashes: the digests are concatenated in comparator order
// and re-hashed with SHA-256. The ordering makes Dot commutative, matching
// the service's fold.
func (h *Hash) Dot(that *Hash) *Hash {
	joined := make([]byte, 0, len(h.digest)+len(that.digest))
	if compareDigests(h.digest, that.digest) < 0 {
		joined = append(append(joined, h.digest...), that.digest...)
	} else {
		joined = append(append(joined, that.digest...), h.digest...)
	}
	sum := sha256.Sum256(joined)
	return &Hash{digest: sum[:]}
}

// Sum returns a copy of the digest bytes.
func (h *Hash) Sum() []byte {
	out := make([]byte, len(h.digest))
	copy(out, h.digest)
	return out
}

// compareDigests orders digests the way the service does: byte-reversed,
// with each byte compared as a signed value.
func compareDigests(a, b []byte) int {
	for i := len(a) - 1; i >= 0; i-- {
		d := int(int8(a[i])) - int(int8(b[i]))
		if d != 0 {
			return d
		}
	}
	return 0
}

// Package signatures reads and writes genome k-mer signature stores.
//
// A store holds one deduplicated k-mer array per reference genome along
// with a parallel accession list and the k-mer length and prefix the
// signatures were built under. Completeness comparisons are only valid
// between signatures built under identical k-mer parameters, so both are
// persisted with the arrays and checked by consumers.
package signatures

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// storeVersion guards against decoding stores written by an
// incompatible release.
const storeVersion = 1

// Store is an indexable collection of genome signatures. IDs[i] is the
// accession of the genome whose k-mer array is Kmers[i].
type Store struct {
	// Kmer is the length of each k-mer after the prefix
	Kmer int

	// Prefix is the fixed nucleotide prefix the k-mers follow
	Prefix string

	// IDs are genome accessions, parallel to Kmers
	IDs []string

	// Kmers holds one deduplicated k-mer array per genome
	Kmers [][]uint64
}

// serialized wraps a Store with a version for gob encoding.
type serialized struct {
	Version int
	Store   Store
}

// Len returns the number of genome signatures in the store.
func (s *Store) Len() int {
	return len(s.IDs)
}

// Subset returns a new Store containing only the signatures at the
// given indices, in the given order. The k-mer arrays are shared, not
// copied; callers must not mutate them.
func (s *Store) Subset(indices []int) *Store {
	sub := &Store{
		Kmer:   s.Kmer,
		Prefix: s.Prefix,
		IDs:    make([]string, 0, len(indices)),
		Kmers:  make([][]uint64, 0, len(indices)),
	}
	for _, i := range indices {
		sub.IDs = append(sub.IDs, s.IDs[i])
		sub.Kmers = append(sub.Kmers, s.Kmers[i])
	}

	return sub
}

// Save writes the store to path as gzipped gob.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := s.write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write signature store %s: %v", path, err)
	}

	return f.Close()
}

// write encodes the store to w as gzipped gob. The gzip writer is
// closed explicitly: most of the payload only reaches w on that final
// flush, so a deferred close would swallow short-write errors and
// leave a truncated store behind a nil error.
func (s *Store) write(w io.Writer) error {
	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(serialized{Version: storeVersion, Store: *s}); err != nil {
		_ = gz.Close()
		return err
	}

	return gz.Close()
}

// Load reads a signature store from path and validates its shape.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature store %s: %v", path, err)
	}
	defer gz.Close()

	var wrapped serialized
	if err := gob.NewDecoder(gz).Decode(&wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode signature store %s: %v", path, err)
	}

	if wrapped.Version != storeVersion {
		return nil, fmt.Errorf("signature store %s has version %d, want %d", path, wrapped.Version, storeVersion)
	}

	s := wrapped.Store
	if len(s.IDs) != len(s.Kmers) {
		return nil, fmt.Errorf("signature store %s is corrupt: %d ids but %d k-mer arrays", path, len(s.IDs), len(s.Kmers))
	}

	return &s, nil
}

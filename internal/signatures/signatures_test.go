package signatures

import (
	"errors"
	"path/filepath"
	"testing"
)

func Test_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gs")

	s := &Store{
		Kmer:   11,
		Prefix: "ATGAC",
		IDs:    []string{"g1", "g2"},
		Kmers: [][]uint64{
			{1, 2, 3},
			{2, 3, 4},
		},
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("failed, %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed, %v", err)
	}

	if loaded.Kmer != 11 || loaded.Prefix != "ATGAC" {
		t.Errorf("failed, loaded k=%d prefix=%s, should be k=11 prefix=ATGAC", loaded.Kmer, loaded.Prefix)
	}
	if loaded.Len() != 2 {
		t.Errorf("failed, loaded %d signatures, should have 2", loaded.Len())
	}
	if loaded.IDs[1] != "g2" || len(loaded.Kmers[1]) != 3 || loaded.Kmers[1][2] != 4 {
		t.Errorf("failed, g2's signature did not survive the round trip: %v", loaded.Kmers[1])
	}
}

// shortWriter refuses every write, like a full disk.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func Test_write_SurfacesFlushError(t *testing.T) {
	s := &Store{
		Kmer:   11,
		Prefix: "ATGAC",
		IDs:    []string{"g1"},
		Kmers:  [][]uint64{{1, 2, 3}},
	}

	// the payload is small enough to sit in the gzip buffer until the
	// final flush; the flush failure must still surface
	if err := s.write(shortWriter{}); err == nil {
		t.Errorf("failed, a writer with no space should be an error, not a silent truncated store")
	}
}

func Test_Load_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.gs")); err == nil {
		t.Errorf("failed, loading a missing store should be an error")
	}
}

func Test_Subset(t *testing.T) {
	s := &Store{
		Kmer:   11,
		Prefix: "ATGAC",
		IDs:    []string{"g1", "g2", "g3"},
		Kmers: [][]uint64{
			{1}, {2}, {3},
		},
	}

	sub := s.Subset([]int{2, 0})

	if sub.Len() != 2 {
		t.Errorf("failed, subset has %d signatures, should have 2", sub.Len())
	}
	if sub.IDs[0] != "g3" || sub.IDs[1] != "g1" {
		t.Errorf("failed, subset ids %v, should be [g3 g1]", sub.IDs)
	}
	if sub.Kmers[0][0] != 3 || sub.Kmers[1][0] != 1 {
		t.Errorf("failed, subset arrays do not follow the requested indices")
	}
	if sub.Kmer != s.Kmer || sub.Prefix != s.Prefix {
		t.Errorf("failed, subset dropped the k-mer parameters")
	}
}

// Package kmers extracts prefix-filtered, integer-packed k-mers from
// FASTA assemblies.
//
// Only k-mers immediately following a fixed nucleotide prefix are kept,
// on both strands. The prefix filter shrinks the effective k-mer space;
// comparisons between genomes are only valid when both sides were
// extracted with the same k and prefix.
package kmers

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// MaxK is the longest k-mer that fits a 2-bit packed uint64.
const MaxK = 32

// record is one FASTA sequence handed to a worker.
type record struct {
	id  string
	seq []byte
}

// Extract returns the deduplicated set of packed k-mers of length k that
// follow prefix in the FASTA file at path, scanning both strands.
// Records fan out to cpus workers; gzipped input is detected by the
// .gz extension.
func Extract(path string, k int, prefix string, cpus int) (map[uint64]struct{}, error) {
	if k <= 0 || k > MaxK {
		return nil, fmt.Errorf("k-mer length %d out of range (1..%d)", k, MaxK)
	}
	if prefix == "" {
		return nil, fmt.Errorf("k-mer prefix must not be empty")
	}
	if cpus < 1 {
		cpus = runtime.NumCPU()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzipped FASTA %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
	}

	records := make(chan record, cpus)
	results := make(chan []uint64, cpus)
	p := []byte(strings.ToUpper(prefix))

	var wg sync.WaitGroup
	for i := 0; i < cpus; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range records {
				results <- scan(rec.seq, k, p)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var scanErr error
	go func() {
		defer close(records)
		scanErr = stream(r, records)
	}()

	kmers := make(map[uint64]struct{})
	for rs := range results {
		for _, km := range rs {
			kmers[km] = struct{}{}
		}
	}

	if scanErr != nil {
		return nil, fmt.Errorf("failed to parse FASTA %s: %v", path, scanErr)
	}

	return kmers, nil
}

// stream parses FASTA records from r and sends them on out.
func stream(r io.Reader, out chan<- record) error {
	sc := bufio.NewScanner(r)
	// allow very long single-line sequences
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var id string
	var seq []byte
	flush := func() {
		if id != "" || len(seq) > 0 {
			out <- record{id: id, seq: bytes.ToUpper(seq)}
		}
		seq = nil
	}

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			flush()
			id = ""
			if fields := bytes.Fields(line[1:]); len(fields) > 0 {
				id = string(fields[0])
			}
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	flush()

	return sc.Err()
}

// scan collects the packed k-mers following prefix on both strands of seq.
func scan(seq []byte, k int, prefix []byte) []uint64 {
	var found []uint64
	found = scanStrand(seq, k, prefix, found)
	found = scanStrand(reverseComplement(seq), k, prefix, found)

	return found
}

// scanStrand appends the packed k-mer after every prefix occurrence in
// seq. Windows containing non-ACGT bases are skipped.
func scanStrand(seq []byte, k int, prefix []byte, found []uint64) []uint64 {
	for i := 0; ; {
		j := bytes.Index(seq[i:], prefix)
		if j < 0 {
			break
		}
		start := i + j + len(prefix)
		if start+k <= len(seq) {
			if km, ok := pack(seq[start : start+k]); ok {
				found = append(found, km)
			}
		}
		i += j + 1
	}

	return found
}

// pack encodes seq as 2 bits per base. ok is false if seq contains a
// base outside ACGT.
func pack(seq []byte) (km uint64, ok bool) {
	for _, b := range seq {
		km <<= 2
		switch b {
		case 'A':
			// km |= 0
		case 'C':
			km |= 1
		case 'G':
			km |= 2
		case 'T':
			km |= 3
		default:
			return 0, false
		}
	}

	return km, true
}

// Unpack renders a packed k-mer of length k back to its bases, mostly
// for logging and tests.
func Unpack(km uint64, k int) string {
	bases := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		bases[i] = "ACGT"[km&3]
		km >>= 2
	}

	return string(bases)
}

var complement = [256]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'a': 't', 't': 'a', 'g': 'c', 'c': 'g',
}

// reverseComplement returns the reverse complement of seq. Bases without
// a complement (N, gaps) map to zero bytes and never match a prefix or
// pack into a k-mer.
func reverseComplement(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		rc[len(seq)-1-i] = complement[seq[i]]
	}

	return rc
}

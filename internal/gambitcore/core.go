package gambitcore

import (
	"math"

	"github.com/cimendes/gambitcore/internal/signatures"
)

// GenomeSubset pairs a genome's accession with the part of its own
// signature that made it into the core k-mer set. Subsets are handed to
// the signature store writer for reuse as a species specific database.
type GenomeSubset struct {
	ID    string
	Kmers []uint64
}

// coreThreshold is the minimum number of genomes a k-mer must occur in
// to count as core. The product is rounded half-up; truncation would
// quietly lower the bar at every fractional boundary.
func coreThreshold(numGenomes int, coreProportion float64) int {
	return int(math.Round(float64(numGenomes) * coreProportion))
}

// ComputeCore derives the core k-mer set of the selected genomes: every
// k-mer present in at least round(NumGenomes * coreProportion) of them.
//
// Each genome's array is deduplicated before counting, so a k-mer's
// count is the number of genomes containing it even if a signature
// violates the uniqueness invariant. Alongside the core set it returns
// the core-filtered signatures of the first numGenomesPerSpecies
// selected genomes (0 meaning all of them), in selection order.
//
// A selection of zero genomes yields a threshold of zero, under which
// every observed k-mer is core; callers must treat an empty species
// match as an error before calling.
func ComputeCore(src *signatures.Store, sel Selection, coreProportion float64, numGenomesPerSpecies int) (map[uint64]struct{}, []GenomeSubset) {
	sub := src.Subset(sel.Indices)

	counts := make(map[uint64]int)
	for _, genome := range sub.Kmers {
		for _, km := range dedupe(genome) {
			counts[km]++
		}
	}

	threshold := coreThreshold(sel.NumGenomes, coreProportion)
	core := make(map[uint64]struct{})
	for km, n := range counts {
		if n >= threshold {
			core[km] = struct{}{}
		}
	}

	nExport := numGenomesPerSpecies
	if nExport == 0 || nExport > sel.NumGenomes {
		nExport = sel.NumGenomes
	}

	subsets := make([]GenomeSubset, 0, nExport)
	for j := 0; j < nExport; j++ {
		var kept []uint64
		for _, km := range sub.Kmers[j] {
			if _, ok := core[km]; ok {
				kept = append(kept, km)
			}
		}
		subsets = append(subsets, GenomeSubset{ID: sub.IDs[j], Kmers: kept})
	}

	return core, subsets
}

// dedupe returns kmers with duplicates removed, preserving first
// occurrence order. The common case of an already unique array
// allocates nothing but the set.
func dedupe(kmers []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(kmers))
	unique := kmers[:0:0]
	for _, km := range kmers {
		if _, ok := seen[km]; ok {
			continue
		}
		seen[km] = struct{}{}
		unique = append(unique, km)
	}

	if len(unique) == len(kmers) {
		return kmers
	}

	return unique
}

package gambitcore

import (
	"github.com/cimendes/gambitcore/internal/signatures"
)

// Selection is the bounded sample of a species' reference genomes used
// for core computation.
type Selection struct {
	// Indices into the signature store, in the store's own order
	Indices []int

	// IDs are the accessions at those indices
	IDs []string

	// NumGenomes is the number of genomes actually selected, after the
	// cap and after dropping accessions with no signature. This is the
	// population size the core proportion thresholds against.
	NumGenomes int
}

// SelectGenomes filters a species' genome population down to the
// signatures available in src.
//
// If the population exceeds maxSpeciesGenomes, only the first
// maxSpeciesGenomes accessions are considered, in the order supplied by
// the metadata source. Accessions with no matching signature are
// silently dropped. The returned selection follows the store's ordering,
// not the population's.
func SelectGenomes(src *signatures.Store, speciesGenomeIDs []string, maxSpeciesGenomes int) Selection {
	if maxSpeciesGenomes > 0 && len(speciesGenomeIDs) > maxSpeciesGenomes {
		speciesGenomeIDs = speciesGenomeIDs[:maxSpeciesGenomes]
	}

	wanted := make(map[string]struct{}, len(speciesGenomeIDs))
	for _, id := range speciesGenomeIDs {
		wanted[id] = struct{}{}
	}

	var sel Selection
	for i, id := range src.IDs {
		if _, ok := wanted[id]; ok {
			sel.Indices = append(sel.Indices, i)
			sel.IDs = append(sel.IDs, id)
		}
	}
	sel.NumGenomes = len(sel.Indices)

	return sel
}

package gambitcore

import (
	"errors"
)

// ErrEmptyCore is returned when a completeness percentage is requested
// against an empty core k-mer set. The percentage's denominator is the
// core size, so there is no honest number to report.
var ErrEmptyCore = errors.New("core k-mer set is empty")

// Result is one query genome's completeness against one core k-mer set.
type Result struct {
	// Intersection is the number of core k-mers found in the query
	Intersection int

	// CoreSize is the size of the core k-mer set
	CoreSize int

	// Percent is Intersection over CoreSize as a percentage
	Percent float64
}

// Completeness scores a query genome's k-mer set against a core k-mer
// set. It is pure: both sets are only read.
func Completeness(queryKmers, coreKmers map[uint64]struct{}) (Result, error) {
	if len(coreKmers) == 0 {
		return Result{}, ErrEmptyCore
	}

	// iterate the smaller set
	small, large := queryKmers, coreKmers
	if len(coreKmers) < len(queryKmers) {
		small, large = coreKmers, queryKmers
	}

	intersection := 0
	for km := range small {
		if _, ok := large[km]; ok {
			intersection++
		}
	}

	return Result{
		Intersection: intersection,
		CoreSize:     len(coreKmers),
		Percent:      float64(intersection) / float64(len(coreKmers)) * 100,
	}, nil
}

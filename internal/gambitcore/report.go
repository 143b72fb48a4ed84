package gambitcore

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// ReportLine is one query genome's scored result, ready for rendering.
type ReportLine struct {
	Filename         string
	Species          string
	Result           Result
	ClosestAccession string
	Distance         float64
}

// reportWriter returns a new tabwriter for completeness report lines
// and writes the header row for the requested schema.
func reportWriter(w io.Writer, extended bool) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	if extended {
		fmt.Fprintf(tw, "filename\tspecies\tcompleteness\tcore kmers\tclosest accession\tclosest distance\t\n")
	} else {
		fmt.Fprintf(tw, "filename\tspecies\tcompleteness\t\n")
	}

	return tw
}

// write renders the line in the concise or extended schema.
func (l ReportLine) write(tw *tabwriter.Writer, extended bool) {
	if extended {
		fmt.Fprintf(tw, "%s\t%s\t%.2f%%\t(%d/%d)\t%s\t%.4f\t\n",
			l.Filename, l.Species, l.Result.Percent,
			l.Result.Intersection, l.Result.CoreSize,
			l.ClosestAccession, l.Distance)
		return
	}

	fmt.Fprintf(tw, "%s\t%s\t%.2f%%\t\n", l.Filename, l.Species, l.Result.Percent)
}

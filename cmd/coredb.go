package cmd

import (
	"github.com/cimendes/gambitcore/internal/gambitcore"
	"github.com/spf13/cobra"
)

// coredbCmd derives a species' core k-mer set and writes the core-filtered
// per-genome signatures out as a standalone signature store, for reuse as a
// smaller species specific database.
var coredbCmd = &cobra.Command{
	Use:                        "coredb [gambit database directory] [species] [output file]",
	Short:                      "Export a species' core-filtered signatures",
	Run:                        gambitcore.CoreDBCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    `  gambitcore coredb /data/gambit-db "Escherichia coli" ecoli-core.gs`,
	Long: `Derive the core k-mer set for one species and persist the core-filtered
signature of each sampled reference genome to a new signature store.
The store carries the k-mer length and prefix it was built under.`,
	Args: cobra.ExactArgs(3),
}

func init() {
	rootCmd.AddCommand(coredbCmd)
}

// Package cmd is for command line interactions with the gambitcore application
package cmd

import (
	"log"

	"github.com/cimendes/gambitcore/internal/gambitcore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command: score one or more assemblies
// against the core k-mer content of their predicted species.
var rootCmd = &cobra.Command{
	Use:   "gambitcore [gambit database directory] [assembly FASTA]...",
	Short: "Estimate assembly completeness against a species' core k-mer content",
	Long: `Estimate how complete each input genome assembly is relative to the core
genomic content of its species.

Each assembly is classified with the external gambit tool to find its closest
reference genome, the reference's species is looked up in the GAMBIT metadata
database, a core k-mer set is derived from that species' reference signatures,
and the percentage of the core recovered in the assembly's own k-mers is
reported as a tab separated line.`,
	Args:    cobra.MinimumNArgs(2),
	Run:     gambitcore.CompletenessCmd,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// set flags
func init() {
	rootCmd.PersistentFlags().IntP("kmer", "k", 11, "length of each k-mer after the prefix")
	rootCmd.PersistentFlags().StringP("kmer-prefix", "f", "ATGAC", "nucleotide prefix a k-mer must follow")
	rootCmd.PersistentFlags().Float64P("core-proportion", "c", 0.98, "proportion of genomes a k-mer must be in to count as core")
	rootCmd.PersistentFlags().Int("max-species-genomes", 100, "cap on reference genomes sampled per species")
	rootCmd.PersistentFlags().Int("num-genomes-per-species", 0, "per-genome core signatures to keep for export (0 = all)")
	rootCmd.PersistentFlags().IntP("cpus", "p", 1, "number of cpus to use for classification and extraction")
	rootCmd.Flags().BoolP("extended", "e", false, "report intersection/core sizes, closest accession and distance")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "extra logging and a progress bar")

	// Bind the parameters to viper
	viper.BindPFlag("kmer", rootCmd.PersistentFlags().Lookup("kmer"))
	viper.BindPFlag("kmer-prefix", rootCmd.PersistentFlags().Lookup("kmer-prefix"))
	viper.BindPFlag("core-proportion", rootCmd.PersistentFlags().Lookup("core-proportion"))
	viper.BindPFlag("max-species-genomes", rootCmd.PersistentFlags().Lookup("max-species-genomes"))
	viper.BindPFlag("num-genomes-per-species", rootCmd.PersistentFlags().Lookup("num-genomes-per-species"))
	viper.BindPFlag("cpus", rootCmd.PersistentFlags().Lookup("cpus"))
	viper.BindPFlag("extended", rootCmd.Flags().Lookup("extended"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

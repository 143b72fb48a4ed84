// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the root-level settings struct, populated from
// command line flags bound through Viper
type Config struct {
	// length of each k-mer after the prefix
	Kmer int `mapstructure:"kmer"`

	// fixed nucleotide prefix a k-mer must follow to be kept
	KmerPrefix string `mapstructure:"kmer-prefix"`

	// proportion of sampled genomes a k-mer must occur in to be core
	CoreProportion float64 `mapstructure:"core-proportion"`

	// cap on the number of reference genomes sampled per species
	MaxSpeciesGenomes int `mapstructure:"max-species-genomes"`

	// how many per-genome core-filtered signatures to keep for export,
	// 0 meaning all sampled genomes
	NumGenomesPerSpecies int `mapstructure:"num-genomes-per-species"`

	// parallelism hint passed to gambit and the k-mer extractor
	Cpus int `mapstructure:"cpus"`

	// whether to report the extended output schema
	Extended bool `mapstructure:"extended"`

	// extra logging and a progress bar over the input batch
	Verbose bool `mapstructure:"verbose"`
}

// New returns a new Config struct populated by Viper settings
// (bound to command line arguments in /cmd)
func New() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}

// Package gambitcore derives species core k-mer sets from reference
// genome signatures and scores query assemblies against them.
package gambitcore

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/cheggaaa/pb/v3"
	"github.com/cimendes/gambitcore/config"
	"github.com/cimendes/gambitcore/internal/kmers"
	"github.com/cimendes/gambitcore/internal/metadata"
	"github.com/cimendes/gambitcore/internal/signatures"
	"github.com/spf13/cobra"
)

// stderr is for warnings and per-genome failures, keeping stdout clean
// for report lines.
var stderr = log.New(os.Stderr, "", 0)

// classify resolves an assembly to its closest reference accession and
// distance. A package variable so tests can stand in for the external
// gambit binary.
var classify = closestReference

// runner holds the per-batch handles: one metadata database, one
// signature store, and the cores already derived this batch.
type runner struct {
	conf  config.Config
	dbDir string
	db    *metadata.DB
	src   *signatures.Store

	// cores memoises the derived core k-mer set per species; it is a
	// pure function of the species and settings, and batches often
	// contain many assemblies of the same species
	cores map[string]map[uint64]struct{}
}

// CompletenessCmd scores each assembly FASTA argument against the core
// k-mer content of its predicted species and writes one report line per
// assembly. One failing assembly is reported to stderr and does not
// abort the rest of the batch.
func CompletenessCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	validate(conf)

	r, err := newRunner(conf, args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r.db.Close()

	fastas := args[1:]

	var bar *pb.ProgressBar
	if conf.Verbose && len(fastas) > 1 {
		bar = pb.Full.Start(len(fastas))
		defer bar.Finish()
	}

	tw := reportWriter(os.Stdout, conf.Extended)
	failed := r.scoreBatch(fastas, tw, bar)
	tw.Flush()

	if failed == len(fastas) {
		log.Fatalf("failed to score any of the %d assemblies", len(fastas))
	}
}

// CoreDBCmd derives one species' core k-mer set and writes the
// core-filtered per-genome signatures to a new signature store.
func CoreDBCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	validate(conf)

	r, err := newRunner(conf, args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r.db.Close()

	species, out := args[1], args[2]

	sel, err := r.selectSpecies(context.Background(), species)
	if err != nil {
		log.Fatalf("%v", err)
	}

	_, subsets := ComputeCore(r.src, sel, conf.CoreProportion, conf.NumGenomesPerSpecies)

	store := &signatures.Store{Kmer: r.src.Kmer, Prefix: r.src.Prefix}
	for _, sub := range subsets {
		store.IDs = append(store.IDs, sub.ID)
		store.Kmers = append(store.Kmers, sub.Kmers)
	}

	if err := store.Save(out); err != nil {
		log.Fatalf("%v", err)
	}

	if conf.Verbose {
		stderr.Printf("wrote %d core-filtered signatures for %s to %s", store.Len(), species, out)
	}
}

// newRunner opens the metadata database and signature store inside the
// GAMBIT database directory.
func newRunner(conf config.Config, dbDir string) (*runner, error) {
	dbPath, sigPath, err := findDatabaseFiles(dbDir)
	if err != nil {
		return nil, err
	}

	db, err := metadata.Open(context.Background(), dbPath)
	if err != nil {
		return nil, err
	}

	src, err := signatures.Load(sigPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if src.Kmer != conf.Kmer || src.Prefix != conf.KmerPrefix {
		_ = db.Close()
		return nil, fmt.Errorf(
			"signature store %s was built with k=%d prefix=%s, flags request k=%d prefix=%s; completeness is only valid under identical k-mer parameters",
			sigPath, src.Kmer, src.Prefix, conf.Kmer, conf.KmerPrefix)
	}

	return &runner{
		conf:  conf,
		dbDir: dbDir,
		db:    db,
		src:   src,
		cores: make(map[string]map[uint64]struct{}),
	}, nil
}

// scoreBatch scores each assembly and writes its report line. A
// failing assembly is reported to stderr and does not abort the rest
// of the batch; the number of failures is returned.
func (r *runner) scoreBatch(fastas []string, tw *tabwriter.Writer, bar *pb.ProgressBar) (failed int) {
	for _, fasta := range fastas {
		line, err := r.completeness(context.Background(), fasta)
		if err != nil {
			stderr.Printf("%s: %v", fasta, err)
			failed++
		} else {
			line.write(tw, r.conf.Extended)
		}

		if bar != nil {
			bar.Increment()
		}
	}

	return failed
}

// completeness runs the full pipeline for one assembly: classify,
// resolve species, derive (or reuse) the species core, extract the
// query's k-mers and score.
func (r *runner) completeness(ctx context.Context, fasta string) (ReportLine, error) {
	accession, distance, err := classify(fasta, r.dbDir, r.conf.Cpus)
	if err != nil {
		return ReportLine{}, err
	}

	species, err := r.db.SpeciesForAccession(ctx, accession)
	if err != nil {
		return ReportLine{}, err
	}

	if r.conf.Verbose {
		stderr.Printf("%s: closest reference %s (%.4f), species %s", fasta, accession, distance, species)
	}

	core, ok := r.cores[species]
	if !ok {
		sel, err := r.selectSpecies(ctx, species)
		if err != nil {
			return ReportLine{}, err
		}

		core, _ = ComputeCore(r.src, sel, r.conf.CoreProportion, r.conf.NumGenomesPerSpecies)
		r.cores[species] = core
	}

	queryKmers, err := kmers.Extract(fasta, r.src.Kmer, r.src.Prefix, r.conf.Cpus)
	if err != nil {
		return ReportLine{}, err
	}

	result, err := Completeness(queryKmers, core)
	if err != nil {
		return ReportLine{}, fmt.Errorf("%v for species %s", err, species)
	}

	return ReportLine{
		Filename:         fasta,
		Species:          species,
		Result:           result,
		ClosestAccession: accession,
		Distance:         distance,
	}, nil
}

// selectSpecies resolves a species to its sampled, signature-backed
// genome selection. A species whose population matches no signature at
// all cannot be thresholded against and is an error here, before the
// degenerate zero-genome core can be derived.
func (r *runner) selectSpecies(ctx context.Context, species string) (Selection, error) {
	population, err := r.db.GenomesForSpecies(ctx, species)
	if err != nil {
		return Selection{}, err
	}

	sel := SelectGenomes(r.src, population, r.conf.MaxSpeciesGenomes)
	if sel.NumGenomes == 0 {
		return Selection{}, fmt.Errorf("none of the %d genomes of %s have a signature in the store", len(population), species)
	}

	if r.conf.Verbose {
		stderr.Printf("%s: %d of %d genomes have signatures, core threshold %d",
			species, sel.NumGenomes, len(population), coreThreshold(sel.NumGenomes, r.conf.CoreProportion))
	}

	return sel, nil
}

// validate rejects settings the core functions are undefined under.
// This is the boundary layer; below here misconfiguration is not
// rechecked.
func validate(conf config.Config) {
	if conf.CoreProportion < 0 || conf.CoreProportion > 1 {
		log.Fatalf("core-proportion must be within [0,1], got %v", conf.CoreProportion)
	}
	if conf.Kmer < 1 || conf.Kmer > kmers.MaxK {
		log.Fatalf("kmer must be within [1,%d], got %d", kmers.MaxK, conf.Kmer)
	}
	if conf.MaxSpeciesGenomes < 0 {
		log.Fatalf("max-species-genomes must not be negative, got %d", conf.MaxSpeciesGenomes)
	}
	if conf.NumGenomesPerSpecies < 0 {
		log.Fatalf("num-genomes-per-species must not be negative, got %d", conf.NumGenomesPerSpecies)
	}
}

// findDatabaseFiles locates the metadata database (.gdb or .db) and
// signature store (.gs) inside a GAMBIT database directory.
func findDatabaseFiles(dbDir string) (dbPath, sigPath string, err error) {
	for _, pattern := range []string{"*.gdb", "*.db"} {
		matches, _ := filepath.Glob(filepath.Join(dbDir, pattern))
		if len(matches) > 0 {
			dbPath = matches[0]
			break
		}
	}
	if dbPath == "" {
		return "", "", fmt.Errorf("failed to find a metadata database (*.gdb, *.db) in %s", dbDir)
	}

	matches, _ := filepath.Glob(filepath.Join(dbDir, "*.gs"))
	if len(matches) == 0 {
		return "", "", fmt.Errorf("failed to find a signature store (*.gs) in %s", dbDir)
	}
	sigPath = matches[0]

	return dbPath, sigPath, nil
}

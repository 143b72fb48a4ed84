// Package metadata queries the GAMBIT genome/species metadata database.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrUnknownSpecies is returned when an accession or species name has no
// species-rank annotation in the metadata database.
var ErrUnknownSpecies = errors.New("species not found in metadata database")

// DB wraps the sqlite metadata database shipped alongside a GAMBIT
// signature store.
type DB struct {
	db *sql.DB
}

// Open opens the sqlite metadata database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open metadata database %s: %v", path, err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// SpeciesForAccession returns the species name annotated on the genome
// with the given refseq accession.
func (d *DB) SpeciesForAccession(ctx context.Context, accession string) (string, error) {
	var species string
	err := d.db.QueryRowContext(ctx, `
		SELECT t.name
		FROM genomes g
		JOIN genome_annotations ga ON g.id = ga.genome_id
		JOIN taxa t ON ga.taxon_id = t.id AND t.rank = 'species'
		WHERE g.refseq_acc = ?
	`, accession).Scan(&species)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: accession %s", ErrUnknownSpecies, accession)
		}
		return "", fmt.Errorf("species lookup for %s: %v", accession, err)
	}

	return species, nil
}

// GenomesForSpecies returns every reference genome accession annotated
// with the given species name, in the database's own order.
func (d *DB) GenomesForSpecies(ctx context.Context, species string) ([]string, error) {
	var concatenated string
	err := d.db.QueryRowContext(ctx, `
		SELECT GROUP_CONCAT(g.refseq_acc)
		FROM genomes g
		JOIN genome_annotations ga ON g.id = ga.genome_id
		JOIN taxa t ON ga.taxon_id = t.id AND t.rank = 'species'
		WHERE t.name = ?
		GROUP BY t.name
	`, species).Scan(&concatenated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSpecies, species)
		}
		return nil, fmt.Errorf("genome lookup for %s: %v", species, err)
	}

	if concatenated == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpecies, species)
	}

	return strings.Split(concatenated, ","), nil
}

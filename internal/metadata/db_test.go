package metadata

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// testDB creates a metadata database with two E. coli genomes and one
// genus-rank taxon that must never satisfy a species lookup.
func testDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.gdb")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	_, err = raw.Exec(`
		CREATE TABLE genomes (id INTEGER PRIMARY KEY, refseq_acc TEXT);
		CREATE TABLE taxa (id INTEGER PRIMARY KEY, name TEXT, rank TEXT);
		CREATE TABLE genome_annotations (genome_id INTEGER, taxon_id INTEGER);

		INSERT INTO taxa VALUES (1, 'Escherichia coli', 'species');
		INSERT INTO taxa VALUES (2, 'Escherichia', 'genus');
		INSERT INTO genomes VALUES (1, 'GCF_1');
		INSERT INTO genomes VALUES (2, 'GCF_2');
		INSERT INTO genome_annotations VALUES (1, 1);
		INSERT INTO genome_annotations VALUES (1, 2);
		INSERT INTO genome_annotations VALUES (2, 1);
	`)
	if err != nil {
		t.Fatalf("failed to populate test database: %v", err)
	}
	raw.Close()

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("failed, %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func Test_SpeciesForAccession(t *testing.T) {
	db := testDB(t)

	species, err := db.SpeciesForAccession(context.Background(), "GCF_1")
	if err != nil {
		t.Fatalf("failed, %v", err)
	}
	if species != "Escherichia coli" {
		t.Errorf("failed, resolved %q, should be the species-rank taxon", species)
	}
}

func Test_SpeciesForAccession_Unknown(t *testing.T) {
	db := testDB(t)

	_, err := db.SpeciesForAccession(context.Background(), "GCF_404")
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("failed, unknown accession returned %v, should be ErrUnknownSpecies", err)
	}
}

func Test_GenomesForSpecies(t *testing.T) {
	db := testDB(t)

	genomes, err := db.GenomesForSpecies(context.Background(), "Escherichia coli")
	if err != nil {
		t.Fatalf("failed, %v", err)
	}

	if len(genomes) != 2 || genomes[0] != "GCF_1" || genomes[1] != "GCF_2" {
		t.Errorf("failed, population is %v, should be [GCF_1 GCF_2]", genomes)
	}
}

func Test_GenomesForSpecies_Unknown(t *testing.T) {
	db := testDB(t)

	_, err := db.GenomesForSpecies(context.Background(), "Klebsiella pneumoniae")
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("failed, unknown species returned %v, should be ErrUnknownSpecies", err)
	}

	// a genus-rank name must not resolve either
	_, err = db.GenomesForSpecies(context.Background(), "Escherichia")
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("failed, genus-rank lookup returned %v, should be ErrUnknownSpecies", err)
	}
}

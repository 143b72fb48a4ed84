package gambitcore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGambitOutput(t *testing.T, content string) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gambit-out.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write gambit fixture: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open gambit fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	return f
}

func Test_gambitParse(t *testing.T) {
	out := writeGambitOutput(t,
		"query,predicted.name,predicted.rank,closest.distance,closest.description\n"+
			"assembly.fa,Escherichia coli,species,0.0321,GCF_000005845.2 Escherichia coli str. K-12 substr. MG1655\n")

	g := &gambitExec{fasta: "assembly.fa", out: out}
	accession, distance, err := g.parse()
	if err != nil {
		t.Fatalf("failed, %v", err)
	}

	if accession != "GCF_000005845.2" {
		t.Errorf("failed, parsed accession %q, should be the first token of the description", accession)
	}
	if distance != 0.0321 {
		t.Errorf("failed, parsed distance %v, should be 0.0321", distance)
	}
}

func Test_gambitParse_NoResult(t *testing.T) {
	out := writeGambitOutput(t,
		"query,predicted.name,predicted.rank,closest.distance,closest.description\n")

	g := &gambitExec{fasta: "assembly.fa", out: out}
	if _, _, err := g.parse(); err == nil {
		t.Errorf("failed, a header-only gambit output should be an error")
	}
}

func Test_gambitParse_MissingColumns(t *testing.T) {
	out := writeGambitOutput(t,
		"query,predicted.name\nassembly.fa,Escherichia coli\n")

	g := &gambitExec{fasta: "assembly.fa", out: out}
	if _, _, err := g.parse(); err == nil {
		t.Errorf("failed, gambit output without closest.* columns should be an error")
	}
}

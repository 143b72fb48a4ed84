package gambitcore

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// gambitExec is a small utility object for executing the external
// gambit classifier against one assembly.
type gambitExec struct {
	// the query assembly FASTA
	fasta string

	// the GAMBIT database directory
	dbDir string

	// the output CSV file
	out *os.File

	// parallelism hint passed through to gambit
	cpus int
}

// closestReference classifies the assembly at fasta against the GAMBIT
// database and returns the closest reference genome's accession and the
// distance to it.
func closestReference(fasta, dbDir string, cpus int) (accession string, distance float64, err error) {
	out, err := os.CreateTemp("", "gambit-out-*.csv")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(out.Name())
	defer out.Close()

	g := &gambitExec{
		fasta: fasta,
		dbDir: dbDir,
		out:   out,
		cpus:  cpus,
	}

	if err := g.run(); err != nil {
		return "", 0, err
	}

	return g.parse()
}

// run calls the external gambit binary, writing results to g.out.
func (g *gambitExec) run() error {
	gambitCmd := exec.Command(
		"gambit",
		"-d", g.dbDir,
		"query",
		"-o", g.out.Name(),
		"-f", "csv",
		"-c", strconv.Itoa(g.cpus),
		g.fasta,
	)

	// execute gambit and wait on it to finish
	if output, err := gambitCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute gambit against %s: %v: %s", g.fasta, err, string(output))
	}

	return nil
}

// parse reads gambit's CSV output and pulls out the closest reference
// accession and distance. Columns are addressed by header name; the
// accession is the first whitespace-delimited token of the closest
// genome's description, which is how GAMBIT databases label entries.
func (g *gambitExec) parse() (accession string, distance float64, err error) {
	f, err := os.Open(g.out.Name())
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse gambit output for %s: %v", g.fasta, err)
	}
	if len(rows) < 2 {
		return "", 0, fmt.Errorf("gambit returned no result for %s", g.fasta)
	}

	descCol, distCol := -1, -1
	for i, name := range rows[0] {
		switch name {
		case "closest.description":
			descCol = i
		case "closest.distance":
			distCol = i
		}
	}
	if descCol < 0 || distCol < 0 {
		return "", 0, fmt.Errorf("gambit output for %s is missing closest.description/closest.distance columns", g.fasta)
	}

	row := rows[1]
	fields := strings.Fields(row[descCol])
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("gambit returned no closest reference for %s", g.fasta)
	}
	accession = fields[0]

	distance, err = strconv.ParseFloat(row[distCol], 64)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse gambit distance %q for %s: %v", row[distCol], g.fasta, err)
	}

	return accession, distance, nil
}

// Package dataset reads and writes newline delimited files of 0/1 rows.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"strings"

	"github.com/nathanhack/fecsim/fec"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("data file not found")

// Read loads every valid row of the file at path. A missing file wraps
// ErrNotFound.
func Read(path string) ([]fec.Bits, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", path, err)
	}
	defer f.Close()

	rows, err := Scan(f)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", path, err)
	}
	logrus.Debugf("read %v rows from %v", len(rows), path)
	return rows, nil
}

// Scan trims every line and keeps those made only of 0 and 1. Empty lines
// and lines with any other character are skipped.
func Scan(r io.Reader) ([]fec.Bits, error) {
	var rows []fec.Bits
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		bits, err := fec.Parse(text)
		if err != nil {
			logrus.Debugf("skipping line %v: %v", line, err)
			continue
		}
		rows = append(rows, bits)
	}
	return rows, scanner.Err()
}

// Generate writes rows random lines of width bits each.
func Generate(w io.Writer, rows, width int, rng *rand.Rand) error {
	if rows < 0 || width < 1 {
		return fec.Configf("rows", "rows >= 0 and width >= 1 required but found %v and %v", rows, width)
	}
	buf := bufio.NewWriter(w)
	row := fec.Zeros(width)
	for i := 0; i < rows; i++ {
		for j := range row {
			row[j] = uint8(rng.Intn(2))
		}
		if _, err := buf.WriteString(row.String() + "\n"); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// Write stores rows one per line.
func Write(w io.Writer, rows []fec.Bits) error {
	buf := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := buf.WriteString(row.String() + "\n"); err != nil {
			return err
		}
	}
	return buf.Flush()
}

package gains

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// this file contains functions to read the trade list export.
// It is a comma separated file with a header line, as exported by CoinTracking.

// Table is a raw, header-labelled trade list, as read from the input file.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads a delimited, header-labelled table from r.
//
// Every row must have as many fields as the header. Fields are kept as
// read; typing happens in [Normalize].
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	// spreadsheet exports often start with a byte order mark.
	if c, _, err := br.ReadRune(); err == nil && c != '\ufeff' {
		br.UnreadRune()
	}
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = 0 // the header sets the number of fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read trade list: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot read trade list: no header line")
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadTableFile reads the table stored in file.
func ReadTableFile(file string) (*Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open trade list %q: %w", file, err)
	}
	defer f.Close()
	return ReadTable(f)
}

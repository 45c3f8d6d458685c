package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMissingRecords is returned when an export has no top-level "records" array.
var ErrMissingRecords = errors.New("export has no \"records\" array")

type export struct {
	Records *[]Record `json:"records"`
}

// Load reads a JSON export file of the form {"records": [...]}.
// Any read or decode failure is fatal for the run.
func Load(path string) ([]Record, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export %s: %w", path, err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode parses an export from r. Unknown record fields are ignored.
func Decode(r io.Reader) ([]Record, error) {
	var exp export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&exp); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if exp.Records == nil {
		return nil, ErrMissingRecords
	}
	return *exp.Records, nil
}

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Scheme is the only source scheme a compiled table reports.
const Scheme = "file"

// legacyTableCount is emitted as "table-count" regardless of the number of
// tables. Existing consumers read it as a constant.
const legacyTableCount = 1

// requiredSnapshotKeys must be present for a snapshot to be parsed.
//
//nolint:gochecknoglobals // Read-only lookup table.
var requiredSnapshotKeys = []string{"filename", "tables", "preset"}

// Counts holds issue counts per severity.
type Counts struct {
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Informations int `json:"informations"`
}

// Total returns the sum over all severities.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Informations
}

// Add returns the component-wise sum of two counts.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Errors:       c.Errors + other.Errors,
		Warnings:     c.Warnings + other.Warnings,
		Informations: c.Informations + other.Informations,
	}
}

// TableRecord is the compiled form of one logical table.
type TableRecord struct {
	Format           *string       `json:"format"`
	Errors           []IssueRecord `json:"errors"`
	Warnings         []IssueRecord `json:"warnings"`
	Informations     []IssueRecord `json:"informations"`
	RowCount         *int          `json:"row-count"`
	Headers          []string      `json:"headers"`
	Source           string        `json:"source"`
	Time             float64       `json:"time"`
	Valid            bool          `json:"valid"`
	Scheme           string        `json:"scheme"`
	Encoding         *string       `json:"encoding"`
	Schema           any           `json:"schema"`
	ItemCount        int           `json:"item-count"`
	ErrorCount       int           `json:"error-count"`
	WarningCount     int           `json:"warning-count"`
	InformationCount int           `json:"information-count"`
}

// Counts returns the per-severity counts of the table.
func (t *TableRecord) Counts() Counts {
	return Counts{Errors: t.ErrorCount, Warnings: t.WarningCount, Informations: t.InformationCount}
}

// Snapshot is the compiled, serializable form of a report. It is also the only
// persisted form: Parse turns it back into a report.
type Snapshot struct {
	Supplementary []Supplementary     `json:"supplementary"`
	ItemCount     int                 `json:"item-count"`
	ErrorCount    int                 `json:"error-count"`
	Counts        Counts              `json:"counts"`
	Valid         bool                `json:"valid"`
	IssuesSkipped SkipLedger          `json:"issues-skipped"`
	Artifacts     map[string]Artifact `json:"artifacts"`
	Tables        []TableRecord       `json:"tables"`
	Filename      string              `json:"filename"`
	Preset        Preset              `json:"preset"`
	Warnings      []string            `json:"warnings"`
	TableCount    int                 `json:"table-count"`
	Time          float64             `json:"time"`
}

// DecodeSnapshot decodes a JSON snapshot. The filename, tables and preset keys
// are required; numbers inside free-form payloads are kept as json.Number.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	for _, key := range requiredSnapshotKeys {
		raw, ok := keys[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformedSnapshot, key)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	snap := &Snapshot{}
	if err := dec.Decode(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return snap, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

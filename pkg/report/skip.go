package report

import (
	"encoding/json"
	"fmt"
	"maps"
)

// SkipCount records how many issues of a class were dropped by the cap.
// It is serialized as the array [skipped, kept, total].
type SkipCount struct {
	Skipped int
	Kept    int
	Total   int
}

// MarshalJSON implements json.Marshaler.
func (c SkipCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{c.Skipped, c.Kept, c.Total})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *SkipCount) UnmarshalJSON(data []byte) error {
	var triple []int
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("decode skip count: %w", err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("decode skip count: expected 3 elements, got %d", len(triple))
	}
	*c = SkipCount{Skipped: triple[0], Kept: triple[1], Total: triple[2]}
	return nil
}

// SkipLedger maps class identifiers ("processor|code") to skip counts.
type SkipLedger map[string]SkipCount

// SkipMergeMode selects how an existing skip count absorbs a new one.
type SkipMergeMode int

const (
	// SkipMerging combines the ledgers of two reports: kept stays as it was.
	SkipMerging SkipMergeMode = iota
	// SkipRecounting folds a freshly compiled count into a report's prior state:
	// kept is taken from the new count.
	SkipRecounting
)

// Clone returns a copy of the ledger.
func (s SkipLedger) Clone() SkipLedger {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Merge folds src into s and returns the result, allocating when s is nil.
// For a class present in both, skipped counts are summed and total becomes
// s.total + src.total - s.kept, so issues s already kept are not counted twice.
func (s SkipLedger) Merge(src SkipLedger, mode SkipMergeMode) SkipLedger {
	if len(src) == 0 {
		return s
	}
	if s == nil {
		s = make(SkipLedger, len(src))
	}
	for class, incoming := range src {
		existing, ok := s[class]
		if !ok {
			s[class] = incoming
			continue
		}
		merged := SkipCount{
			Skipped: existing.Skipped + incoming.Skipped,
			Kept:    existing.Kept,
			Total:   existing.Total + incoming.Total - existing.Kept,
		}
		if mode == SkipRecounting {
			merged.Kept = incoming.Kept
		}
		s[class] = merged
	}
	return s
}

// TotalSkipped returns the number of skipped issues over all classes.
func (s SkipLedger) TotalSkipped() int {
	total := 0
	for _, count := range s {
		total += count.Skipped
	}
	return total
}

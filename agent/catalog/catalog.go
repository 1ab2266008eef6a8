// Package catalog holds the read-only certification table the pipeline
// consults. Records are loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"sort"
	"strconv"
	"strings"

	contractx "certpilot/agent/contract"
)

//go:embed data/certifications.json
var embeddedData []byte

// Level grades certification difficulty.
type Level string

const (
	LevelFundamental Level = "Fundamental"
	LevelAssociate   Level = "Associate"
	LevelExpert      Level = "Expert"
	LevelSpecialty   Level = "Specialty"
)

// levelRank orders levels from entry to advanced. Unknown levels sort last.
func levelRank(l Level) int {
	switch l {
	case LevelFundamental:
		return 1
	case LevelAssociate:
		return 2
	case LevelExpert:
		return 3
	case LevelSpecialty:
		return 4
	default:
		return 5
	}
}

// Record is one certification entry. Immutable after load.
type Record struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Level              Level    `json:"level"`
	Category           string   `json:"category"`
	Prerequisites      string   `json:"prerequisites"`
	EstimatedStudyTime string   `json:"estimated_study_time"`
	Modules            []string `json:"modules,omitempty"`
	LearningPaths      []string `json:"learning_paths,omitempty"`
}

// MinHours parses the lower bound of the estimated study time range,
// e.g. "20-30 hours" -> 20. Returns def when the field is unparsable.
func (r Record) MinHours(def int) int {
	return parseHoursBound(r.EstimatedStudyTime, 0, def)
}

// MaxHours parses the upper bound of the estimated study time range.
func (r Record) MaxHours(def int) int {
	return parseHoursBound(r.EstimatedStudyTime, 1, def)
}

func parseHoursBound(s string, idx int, def int) int {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return def
	}
	parts := strings.Split(fields[0], "-")
	if idx >= len(parts) {
		idx = len(parts) - 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[idx]))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Catalog is the in-memory certification table. Lookup order is the source
// file's insertion order, which keeps All and Search deterministic.
type Catalog struct {
	records []Record
	byID    map[string]int
}

type datasetFile struct {
	Certifications []Record `json:"certifications"`
}

// Load reads a dataset file. A missing or malformed file wraps ErrDataLoad;
// the caller is expected to treat that as fatal.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrDataLoad, path, err)
	}
	return parse(raw, path)
}

// Default returns the catalog built from the embedded dataset.
func Default() (*Catalog, error) {
	return parse(embeddedData, "embedded dataset")
}

func parse(raw []byte, source string) (*Catalog, error) {
	var file datasetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", contractx.ErrDataLoad, source, err)
	}
	if len(file.Certifications) == 0 {
		return nil, fmt.Errorf("%w: %s contains no certifications", contractx.ErrDataLoad, source)
	}

	byID := make(map[string]int, len(file.Certifications))
	for i, rec := range file.Certifications {
		id := strings.ToLower(strings.TrimSpace(rec.ID))
		if id == "" {
			return nil, fmt.Errorf("%w: %s: record %d has no id", contractx.ErrDataLoad, source, i)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate id %q", contractx.ErrDataLoad, source, id)
		}
		byID[id] = i
	}

	return &Catalog{records: file.Certifications, byID: byID}, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// All returns every record in insertion order. The returned slice is a copy;
// callers may reorder it freely.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// ByID returns the record with the given id, case-insensitively. A miss
// wraps ErrNotFound.
func (c *Catalog) ByID(id string) (Record, error) {
	idx, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", contractx.ErrNotFound, id)
	}
	return c.records[idx], nil
}

// Search returns records whose title, description, category, or id contains
// the query, case-insensitively, in insertion order. The sequence is lazy
// and restartable: ranging over it twice yields the same records. An empty
// match is not an error.
func (c *Catalog) Search(query string) iter.Seq[Record] {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(yield func(Record) bool) {
		if q == "" {
			return
		}
		for _, rec := range c.records {
			if strings.Contains(strings.ToLower(rec.Title), q) ||
				strings.Contains(strings.ToLower(rec.Description), q) ||
				strings.Contains(strings.ToLower(rec.Category), q) ||
				strings.Contains(strings.ToLower(rec.ID), q) {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// RankForExperience sorts a candidate slice in place so the most suitable
// level for the stated experience comes first. Beginners get Fundamental
// first; advanced users get the deeper levels first. Ties keep insertion
// order (the sort is stable).
func RankForExperience(recs []Record, beginner bool) {
	rank := func(r Record) int {
		if beginner {
			return levelRank(r.Level)
		}
		return -levelRank(r.Level)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return rank(recs[i]) < rank(recs[j])
	})
}

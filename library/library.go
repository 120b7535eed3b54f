package library

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Library is the read-only record table mapping a book title to its full
// summary. It is built once at startup and never mutated afterwards, so it
// is safe to share across concurrent conversations.
type Library struct {
	summaries map[string]string
}

type record struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summary returns the stored summary for an exact title. No fuzzy matching
// and no case folding.
func (l *Library) Summary(title string) (string, bool) {
	s, ok := l.summaries[title]
	return s, ok
}

func (l *Library) Titles() []string {
	titles := make([]string, 0, len(l.summaries))
	for t := range l.summaries {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

func (l *Library) Len() int {
	return len(l.summaries)
}

func New(summaries map[string]string) *Library {
	cpy := make(map[string]string, len(summaries))
	for k, v := range summaries {
		cpy[k] = v
	}
	return &Library{summaries: cpy}
}

// Load reads a JSON array of {title, summary} records.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book summaries: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse book summaries: %w", err)
	}

	summaries := make(map[string]string, len(records))
	for _, r := range records {
		summaries[r.Title] = r.Summary
	}

	return &Library{summaries: summaries}, nil
}

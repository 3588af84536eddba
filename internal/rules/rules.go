// Package rules holds the canned-response knowledge table and the matcher
// that picks a reply for a chat turn. The table is ordered: the first rule
// whose predicates all pass wins, regardless of any later match.
package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultResponse is returned when no rule in the table matches.
const DefaultResponse = "Thanks for your question! Based on your hair profile, I'd recommend consulting with a hair care professional for personalized advice. In the meantime, maintaining a consistent routine with gentle, sulfate-free products is always a good start."

// Rule is one entry of the response table. Keywords match as
// case-insensitive substrings of the utterance; HairType and Scalp, when
// set, must equal the profile values exactly.
type Rule struct {
	Keywords []string `json:"keywords"`
	HairType string   `json:"hairType,omitempty"`
	Scalp    string   `json:"scalp,omitempty"`
	Response string   `json:"response"`
}

// Table is an ordered, immutable rule list. Safe for concurrent use.
type Table []Rule

// ProfileView is the slice of a profile the matcher cares about. Zero
// values mean "attribute absent"; only filterless rules can match then.
type ProfileView struct {
	HairType string   `json:"hair_type"`
	Scalp    string   `json:"scalp_condition"`
	Concerns []string `json:"concerns,omitempty"`
}

//go:embed responses.json
var embeddedTable []byte

var (
	defaultOnce  sync.Once
	defaultTable Table
)

// Default returns the embedded response table, parsed once per process.
func Default() Table {
	defaultOnce.Do(func() {
		t, err := Load(strings.NewReader(string(embeddedTable)))
		if err != nil {
			// embedded data is part of the build; failing to parse it
			// is a programming error
			panic(fmt.Sprintf("rules: embedded responses.json: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load parses a JSON rule table. Rules keep their file order.
func Load(r io.Reader) (Table, error) {
	var t Table
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("rules: decode table: %w", err)
	}
	for i, rule := range t {
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rules: rule %d has no keywords", i)
		}
		if rule.Response == "" {
			return nil, fmt.Errorf("rules: rule %d has no response", i)
		}
	}
	return t, nil
}

// Select returns the reply for one chat turn: the response of the first
// rule matching the profile and utterance, or DefaultResponse. Pure; no
// I/O, total over any input.
func (t Table) Select(p ProfileView, utterance string) string {
	lower := strings.ToLower(utterance)

	for _, rule := range t {
		if !keywordHit(rule.Keywords, lower) {
			continue
		}
		if rule.HairType != "" && rule.HairType != p.HairType {
			continue
		}
		if rule.Scalp != "" && rule.Scalp != p.Scalp {
			continue
		}
		return rule.Response
	}
	return DefaultResponse
}

func keywordHit(keywords []string, lowerUtterance string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowerUtterance, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

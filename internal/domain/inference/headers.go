package inference

import (
	"strings"

	"golang.org/x/text/cases"
)

// Default header synonyms.
var (
	defaultSkillHeaders    = []string{"skill", "skills", "skill name", "skill_title", "competency", "competency name"}
	defaultLevelHeaders    = []string{"level", "skill level", "rating", "proficiency", "score"}
	defaultEmployeeHeaders = []string{"employee", "employee name", "employee_name"}
)

// foldHeader normalizes a header cell for synonym lookup.
func foldHeader(h string) string {
	return cases.Fold().String(strings.TrimSpace(h))
}

// vocabulary is a set of folded header synonyms.
type vocabulary map[string]struct{}

func newVocabulary(words ...[]string) vocabulary {
	v := make(vocabulary)
	for _, list := range words {
		v.add(list...)
	}
	return v
}

func (v vocabulary) add(words ...string) {
	for _, w := range words {
		if k := foldHeader(w); k != "" {
			v[k] = struct{}{}
		}
	}
}

func (v vocabulary) has(header string) bool {
	_, ok := v[foldHeader(header)]
	return ok
}

// lastMatch returns the index of the last header in v, or -1.
func (v vocabulary) lastMatch(header []string) int {
	idx := -1
	for i, h := range header {
		if v.has(h) {
			idx = i
		}
	}
	return idx
}

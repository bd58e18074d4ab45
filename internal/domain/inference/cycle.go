// Package inference recovers skill records from spreadsheets of unknown layout.
package inference

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/okian/skillmerge/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filename patterns.
var (
	datePattern      = regexp.MustCompile(`20\d{2}[-_]\d{1,2}[-_]\d{1,2}`)
	extensionPattern = regexp.MustCompile(`(?i)\.(xlsx|xlsm|xls)$`)
	separatorPattern = regexp.MustCompile(`[\s_.\-]+`)
	cycleToken       = regexp.MustCompile(`(?i)^(cycle[12]|c[12])$`)
)

// dateLayout accepts one or two digit months and days.
const dateLayout = "2006-1-2"

// DetectCycle tags a file with an assessment cycle from its name.
//
// The checks are plain substring tests on the lower-cased name, so any
// occurrence of "c1" tags cycle 1 before "cycle2" is considered. A date in the
// name is parsed and returned, but it never decides the cycle: there is no
// reference point telling which date is the older round.
func DetectCycle(filename string) (model.Cycle, *time.Time) {
	low := strings.ToLower(filename)
	switch {
	case strings.Contains(low, "cycle1") || strings.Contains(low, "c1"):
		return model.Cycle1, nil
	case strings.Contains(low, "cycle2") || strings.Contains(low, "c2"):
		return model.Cycle2, nil
	}

	match := datePattern.FindString(filename)
	if match == "" {
		return model.CycleUnknown, nil
	}
	dt, err := time.Parse(dateLayout, strings.ReplaceAll(match, "_", "-"))
	if err != nil {
		return model.CycleUnknown, nil
	}
	return model.CycleUnknown, &dt
}

// EmployeeFromFilename derives the employee name from a file or archive member name.
// "alice_cycle1.xlsx" and "alice_cycle2.xlsx" both yield "Alice".
func EmployeeFromFilename(filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	stem := strings.TrimSpace(extensionPattern.ReplaceAllString(base, ""))

	words := make([]string, 0, 4)
	for _, tok := range separatorPattern.Split(datePattern.ReplaceAllString(stem, " "), -1) {
		if tok == "" || cycleToken.MatchString(tok) {
			continue
		}
		words = append(words, tok)
	}
	if len(words) == 0 {
		return stem
	}
	// Title casers are stateful; build one per call.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}

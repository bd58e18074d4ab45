package inference

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/skillmerge/internal/domain/model"
)

// Bounds for cells read as skill levels.
const (
	minMatrixLevel = 0
	maxMatrixLevel = 10
	maxDumpRunes   = 80
)

// int64 range expressed as float64 bounds; MaxInt64 is not representable exactly.
const (
	maxIntFloat = 9.2e18
	minIntFloat = -9.2e18
)

// coerceInt reads a cell as an integer: an integer literal, or a float literal
// truncated toward zero.
func coerceInt(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t > maxIntFloat || t < minIntFloat {
		return 0, false
	}
	return int(t), true
}

// isNumeric reports whether a cell holds any finite number.
func isNumeric(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f)
}

// coerceLevel converts a level cell. Cells that are not numbers keep their text;
// blank cells are unknown.
func coerceLevel(cell string) model.Level {
	if n, ok := coerceInt(cell); ok {
		return model.IntLevel(n)
	}
	if strings.TrimSpace(cell) == "" {
		return model.UnknownLevel()
	}
	return model.RawLevel(cell)
}

// matrixLevel reports whether a cell is a skill level in a wide matrix.
func matrixLevel(cell string) (int, bool) {
	n, ok := coerceInt(cell)
	if !ok || n < minMatrixLevel || n > maxMatrixLevel {
		return 0, false
	}
	return n, true
}

// dumpable reports whether a trimmed cell is short enough to be a skill label.
func dumpable(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n < maxDumpRunes
}

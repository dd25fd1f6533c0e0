package station

import (
	"fmt"
	"regexp"
	"strings"
)

// codeRegex matches ICAO and IATA style station identifiers: 3 or 4
// alphabetic characters.
var codeRegex = regexp.MustCompile(`^[A-Z]{3,4}$`)

// Normalize trims and uppercases a station identifier and validates it.
// Validation happens before any upstream fetch so bad input never leaves
// the process.
func Normalize(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !codeRegex.MatchString(code) {
		return "", fmt.Errorf("invalid station code %q: must be 3-4 letters", raw)
	}
	return code, nil
}

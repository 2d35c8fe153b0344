package suggestion

import (
	"regexp"
	"strings"
	"unicode"
)

var numberPrefix = regexp.MustCompile(`^\d+\.\s*`)

// Normalize turns the assistant's reply into one name per entry. It is a heuristic:
// bullet markers are removed, and numbering is stripped when the reply starts with a digit
// despite being asked not to number. Applying it to its own output changes nothing.
func Normalize(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = stripBullet(strings.TrimSpace(line))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	if unicode.IsDigit([]rune(lines[0])[0]) {
		for i, line := range lines {
			lines[i] = strings.TrimSpace(numberPrefix.ReplaceAllString(line, ""))
		}
	}

	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func stripBullet(line string) string {
	for {
		trimmed := strings.TrimLeft(line, "-*•")
		if trimmed == line {
			return line
		}
		line = strings.TrimSpace(trimmed)
	}
}

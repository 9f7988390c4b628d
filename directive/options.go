package directive

import (
	"regexp"
	"strings"
)

var reOption = regexp.MustCompile(`^:(\w+):\s*(.*)`)

// ParseOptions separates `:name: value` lines from the rest of a directive
// body. Later occurrences of a name overwrite earlier ones. The remaining
// lines are returned in their original order.
func ParseOptions(body string) (options map[string]string, residual []string) {
	options = map[string]string{}
	for _, line := range splitLines(body) {
		m := reOption.FindStringSubmatch(line)
		if m == nil {
			residual = append(residual, line)
			continue
		}
		options[m[1]] = m[2]
	}
	return
}

// Residual joins the lines left over by ParseOptions.
func Residual(lines []string) string {
	return strings.Join(lines, "\n")
}

// splitLines breaks s on \n, \r\n and \r. A final line terminator does not
// produce an empty trailing line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

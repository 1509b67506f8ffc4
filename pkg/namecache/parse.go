package namecache

import (
	"regexp"
	"strings"
)

var (
	ansiEscape   = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	leadingDecor = regexp.MustCompile(`^[-—\\/|*·•\s]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	foundPrefix  = regexp.MustCompile(`(?i)^(見つかりました|Found)\s+`)
	nameLine     = regexp.MustCompile(`(?i)^(?:Name|名前)\s*:\s*(.+)$`)
	tableHeader  = regexp.MustCompile(`(?i)^(?:Name|名前)\s+(?:Id|ID)\s+`)
	tableRule    = regexp.MustCompile(`^[-=—]{2,}`)
	columnGap    = regexp.MustCompile(`\s{2,}`)
)

// normalize strips terminal escapes and progress-spinner control characters
// so the output can be split into lines.
func normalize(s string) string {
	s = ansiEscape.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "\n")
	return controlChars.ReplaceAllString(s, " ")
}

// sanitize cleans a candidate name extracted from localized winget output.
func sanitize(text, id string) string {
	s := strings.ReplaceAll(text, "\n", " ")
	s = leadingDecor.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	s = strings.TrimSpace(foundPrefix.ReplaceAllString(s, ""))
	trailingID := regexp.MustCompile(`\s*\[` + regexp.QuoteMeta(id) + `\]$`)
	return strings.TrimSpace(trailingID.ReplaceAllString(s, ""))
}

// parseShow extracts the name from `winget show`. A "<name> [<id>]" line wins
// over a "Name: <name>" line.
func parseShow(output, id string) string {
	marker := "[" + id + "]"
	var fromKey string

	for _, raw := range strings.Split(normalize(output), "\n") {
		line := strings.TrimSpace(raw)
		if before, _, ok := strings.Cut(line, marker); ok {
			if name := sanitize(before, id); name != "" {
				return name
			}
		}
		if m := nameLine.FindStringSubmatch(line); m != nil && fromKey == "" {
			fromKey = sanitize(m[1], id)
		}
	}
	return fromKey
}

// parseTable extracts the first column of the row mentioning id in the
// tables printed by `winget search` and `winget list`.
func parseTable(output, id string) string {
	for _, raw := range strings.Split(normalize(output), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, id) {
			continue
		}
		if tableHeader.MatchString(line) || tableRule.MatchString(line) {
			continue
		}
		cols := columnGap.Split(line, -1)
		return sanitize(cols[0], id)
	}
	return ""
}

// fallbackName derives a name from the identifier's last dotted segment.
func fallbackName(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

package fallback

import (
	"strings"

	"github.com/matheuskafuri/newsticker/internal/news"
)

const genericKeyword = "json-file"

// contentLines splits a fallback resource into meaningful lines, dropping
// blanks and # comments.
func contentLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// findDirective returns the JSON path a resource points at. A service
// specific "<service>-file" line beats "json-file", which beats any line
// ending in a .json token.
func findDirective(lines []string, svc news.Service) (string, bool) {
	own := svc.String() + "-file"
	for _, line := range lines {
		if p, ok := keywordPath(line, own); ok {
			return p, true
		}
	}
	for _, line := range lines {
		if p, ok := keywordPath(line, genericKeyword); ok {
			return p, true
		}
	}
	for _, line := range lines {
		if p, ok := jsonToken(line); ok {
			return p, true
		}
	}
	return "", false
}

// isDirective reports whether line is any directive, for any service.
func isDirective(line string) bool {
	if _, ok := keywordPath(line, genericKeyword); ok {
		return true
	}
	for _, svc := range news.Services() {
		if _, ok := keywordPath(line, svc.String()+"-file"); ok {
			return true
		}
	}
	_, ok := jsonToken(line)
	return ok
}

func keywordPath(line, keyword string) (string, bool) {
	if len(line) < len(keyword) || !strings.EqualFold(line[:len(keyword)], keyword) {
		return "", false
	}
	rest := strings.TrimLeft(line[len(keyword):], " \t:=")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func jsonToken(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	last := fields[len(fields)-1]
	if len(last) <= len(".json") || !strings.HasSuffix(strings.ToLower(last), ".json") {
		return "", false
	}
	return last, true
}

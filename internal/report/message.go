package report

import (
	"regexp"
	"strings"
)

// Conventional commit type at the start of a message, any case
var typePrefixRegex = regexp.MustCompile(`(?i)^(feat|fix|refactor|chore|docs|style|test|perf|ci|build|revert):\s*`)

// quoteArtifacts are removed in order; the bracketed form first so that no
// empty brackets are left behind.
var quoteArtifacts = []string{"['']", "''", `"`}

// CleanMessage strips a leading conventional commit type and quote artifacts
func CleanMessage(message string) string {
	cleaned := typePrefixRegex.ReplaceAllString(message, "")
	for _, artifact := range quoteArtifacts {
		cleaned = strings.ReplaceAll(cleaned, artifact, "")
	}
	return cleaned
}

// Subject returns the first non-blank line of message, trimmed. The summary
// keeps one line per entry, so bodies stay in the detailed section.
func Subject(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

package report

import (
	"sort"
	"strings"
)

// WildcardBranch matches any branch of a project in override keys
const WildcardBranch = "*"

// overrideSeparator splits a rule in the text form of the table
const overrideSeparator = " -> "

// NameOverrides maps "repo(branch)" or "repo(*)" to a display label
type NameOverrides map[string]string

// Key builds the lookup key for a project and branch
func Key(repo, branch string) string {
	return repo + "(" + branch + ")"
}

// Resolve returns the label for repo on branch. An exact branch key wins
// over the wildcard key; with neither present the label is empty.
func (o NameOverrides) Resolve(repo, branch string) string {
	if label, ok := o[Key(repo, branch)]; ok {
		return label
	}
	if label, ok := o[Key(repo, WildcardBranch)]; ok {
		return label
	}
	return ""
}

// ParseOverrides reads one "key -> label" rule per line. Lines without the
// separator are ignored; the label keeps everything after the first one.
func ParseOverrides(text string) NameOverrides {
	overrides := NameOverrides{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		key, label, ok := strings.Cut(line, overrideSeparator)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		overrides[key] = strings.TrimSpace(label)
	}
	return overrides
}

// Format writes the table in the form ParseOverrides reads, sorted by key
func (o NameOverrides) Format() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+overrideSeparator+o[k])
	}
	return strings.Join(lines, "\n")
}

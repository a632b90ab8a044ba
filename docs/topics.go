// Package docs embeds the user documentation shown by the 'topic' command.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.md
var pages embed.FS

// Topic returns the markdown body of one documentation topic. The topic "*"
// expands to all topics concatenated.
func Topic(name string) (string, error) {
	if name == "*" {
		all, err := Topics()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, t := range all {
			body, err := Topic(t)
			if err != nil {
				return "", err
			}
			b.WriteString(body)
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	body, err := pages.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(body), nil
}

// Topics lists every available topic name, "readme" excluded.
func Topics() ([]string, error) {
	entries, err := pages.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "readme" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

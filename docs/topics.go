// Package docs holds the user manual of whs: the index readme.md and one
// markdown file per topic listed in it.
package docs

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

//go:embed *.md
var manual embed.FS

// Index is the topic holding the list of topics.
const Index = "readme"

// All designates the whole manual.
const All = "*"

// ErrUnknownTopic is returned for a topic missing from the manual.
var ErrUnknownTopic = errors.New("unknown topic")

// Topic is an entry of the index.
type Topic struct {
	Name    string
	Summary string
}

// an index entry is a "* name: summary" line
var entry = regexp.MustCompile(`^\*\s+([a-z][a-z0-9-]*):\s*(.*)$`)

// Topics returns the topics listed in the index, in order.
func Topics() []Topic {
	index, err := manual.ReadFile(Index + ".md")
	if err != nil {
		panic(err) // embedded
	}
	var topics []Topic
	sc := bufio.NewScanner(strings.NewReader(string(index)))
	for sc.Scan() {
		if m := entry.FindStringSubmatch(sc.Text()); m != nil {
			topics = append(topics, Topic{Name: m[1], Summary: strings.TrimSpace(m[2])})
		}
	}
	return topics
}

// Names returns the names of the topics, in index order.
func Names() []string {
	var names []string
	for _, t := range Topics() {
		names = append(names, t.Name)
	}
	return names
}

// Read returns the markdown of the topics, one after the other. All stands
// for the index followed by every topic.
func Read(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		if name == All {
			all, err := Read(append([]string{Index}, Names()...)...)
			if err != nil {
				return "", err
			}
			b.WriteString(all)
			continue
		}
		data, err := manual.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("%w %q, see 'whs topic'", ErrUnknownTopic, name)
		}
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String(), nil
}

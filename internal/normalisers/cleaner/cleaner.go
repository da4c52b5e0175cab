// Package cleaner normalises raw source text before chunking.
// It strips boilerplate front/back matter and per-line noise, and joins
// the surviving lines into one continuous text stream. Chunking is
// character-offset based and works better on continuous prose than on
// preserved line breaks.
package cleaner

import (
	"regexp"
	"strings"
)

// Rules configures the cleaning transformations. Rules are injected
// rather than compiled in so cleaning can vary per corpus without code
// changes.
type Rules struct {
	// StartMarker, when it matches, discards everything up to and
	// including the match. A missing marker is not an error.
	StartMarker *regexp.Regexp

	// EndMarker, when it matches, discards the match and everything
	// after it. A missing marker is not an error.
	EndMarker *regexp.Regexp

	// NoiseLines are exact line matches to drop (titles, section
	// headers, repeated boilerplate). Compared after trimming.
	NoiseLines []string

	// NoiseSubstrings drop any line containing one of them
	// (publisher and copyright notices).
	NoiseSubstrings []string
}

// DefaultRules targets Project Gutenberg plain-text releases, the
// corpus the default personas are grounded on.
func DefaultRules() Rules {
	return Rules{
		StartMarker: regexp.MustCompile(`\*\*\* ?START OF (?:THE|THIS) PROJECT GUTENBERG EBOOK[^*]*\*\*\*`),
		EndMarker:   regexp.MustCompile(`\*\*\* ?END OF (?:THE|THIS) PROJECT GUTENBERG EBOOK[^*]*\*\*\*`),
		NoiseLines: []string{
			"CONTENTS",
			"PREFACE",
			"INTRODUCTION",
			"FOOTNOTES",
		},
		NoiseSubstrings: []string{
			"Project Gutenberg",
			"www.gutenberg.org",
			"Copyright",
			"All rights reserved",
		},
	}
}

// Cleaner normalises raw document text. It is a pure function of its
// rules: no side effects, deterministic for the same input.
type Cleaner struct {
	rules      Rules
	digitsOnly *regexp.Regexp
}

// New creates a cleaner with the given rules.
func New(rules Rules) *Cleaner {
	return &Cleaner{
		rules:      rules,
		digitsOnly: regexp.MustCompile(`^\d+$`),
	}
}

// Clean strips boilerplate and noise from raw and returns one
// continuous text stream.
func (c *Cleaner) Clean(raw string) string {
	text := c.trimBoilerplate(raw)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !c.keep(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, " ")
}

// trimBoilerplate cuts front matter before the start marker and back
// matter after the end marker. Each cut happens only when its marker
// is present.
func (c *Cleaner) trimBoilerplate(text string) string {
	if c.rules.StartMarker != nil {
		if loc := c.rules.StartMarker.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
	}
	if c.rules.EndMarker != nil {
		if loc := c.rules.EndMarker.FindStringIndex(text); loc != nil {
			text = text[:loc[0]]
		}
	}
	return text
}

func (c *Cleaner) keep(line string) bool {
	if line == "" {
		return false
	}
	// Bare page numbers
	if c.digitsOnly.MatchString(line) {
		return false
	}
	for _, noise := range c.rules.NoiseLines {
		if line == noise {
			return false
		}
	}
	for _, sub := range c.rules.NoiseSubstrings {
		if strings.Contains(line, sub) {
			return false
		}
	}
	return true
}

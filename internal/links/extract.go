// Package links discovers the issues a pull request references, directly in
// its body text and transitively through the bodies of the referenced issues.
package links

import (
	"regexp"
	"strconv"
)

// Reference patterns applied to issue and PR bodies, most specific first.
// All matches across all patterns land in one deduplicated set, so the bare
// #N pattern at the end only adds mentions the keyword patterns missed.
var linkPatterns = []*regexp.Regexp{
	// Closing keywords: "fixes #1", "closed #2", "resolve #3".
	regexp.MustCompile(`(?i)\b(?:fix(?:es|ed)?|close[sd]?|resolve[sd]?)\s*:?\s*#(\d+)`),
	// Dependency keywords: "depends on #4", "blocked by #5", "requires #6", "after #7".
	regexp.MustCompile(`(?i)\b(?:depends\s+on|blocked\s+by|requires|after)\s*:?\s*#(\d+)`),
	// Hierarchy keywords: "part of #8", "sub-issue of #9", "parent: #10", "child of #11".
	regexp.MustCompile(`(?i)\b(?:part\s+of|sub-?issue\s+of|parent|child\s+of)\s*:?\s*#(\d+)`),
	// Reference keywords: "related to #12", "see #13", "refs #14", "links to #15".
	regexp.MustCompile(`(?i)\b(?:related\s+to|see|ref(?:erence)?s?|links?\s+to)\s*:?\s*#(\d+)`),
	// Bare mentions.
	regexp.MustCompile(`#(\d+)`),
}

// ExtractLinks returns the set of issue numbers referenced by body. Numbers
// that fail to parse or are not positive are discarded. An empty body yields
// an empty set.
func ExtractLinks(body string) Set {
	out := make(Set)
	if body == "" {
		return out
	}
	for _, re := range linkPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				continue
			}
			out.Add(n)
		}
	}
	return out
}

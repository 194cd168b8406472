package parsers

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyReply is returned when nothing speakable is left after cleanup.
var ErrEmptyReply = errors.New("empty reply")

var (
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownMarks  = regexp.MustCompile("[*_`#>]+")
	listBullet     = regexp.MustCompile(`(?m)^\s*(?:[-•]|\d+[.)])\s+`)
	runsOfSpace    = regexp.MustCompile(`\s+`)
	speakerPrefix  = regexp.MustCompile(`(?i)^(?:assistant|agent|ai|sales rep(?:resentative)?)\s*:\s*`)
	surroundQuotes = strings.NewReplacer("“", "\"", "”", "\"")
)

// ParseReply strips formatting a text-to-speech voice would read out literally
// and collapses the reply onto one line.
func ParseReply(content string) (string, error) {
	s := strings.TrimSpace(content)
	s = markdownLink.ReplaceAllString(s, "$1")
	s = listBullet.ReplaceAllString(s, "")
	s = markdownMarks.ReplaceAllString(s, "")
	s = runsOfSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = speakerPrefix.ReplaceAllString(s, "")
	s = surroundQuotes.Replace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && strings.Count(s, "\"") == 2 {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyReply
	}
	return s, nil
}

package content

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// threadMarker matches a leading "n/N" numbering, optionally bold or followed
// by punctuation, e.g. "1/7", "**2/7**", "3/7:".
var threadMarker = regexp.MustCompile(`(?m)^[ \t]*(?:\*\*)?(\d+)[ \t]*/[ \t]*(\d+)(?:\*\*)?[.:)]?[ \t]*`)

// SplitThread splits generated thread text into tweets. Tweets are delimited
// by their "n/N" numbering; text without numbering is split on blank lines.
// Only markers counting up from 1/N with a fixed N delimit tweets, so a line
// such as "24/7 uptime" stays inside its tweet.
// Each tweet keeps its numbering and is flagged when it exceeds
// MaxTweetLength runes.
func SplitThread(text string) []Tweet {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string

	locs := markers(text)
	if len(locs) > 0 {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			chunks = append(chunks, text[loc[0]:end])
		}
	} else {
		chunks = strings.Split(text, "\n\n")
	}

	tweets := make([]Tweet, 0, len(chunks))
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}

		n := utf8.RuneCountInString(c)
		tweets = append(tweets, Tweet{
			Index:      len(tweets) + 1,
			Text:       c,
			Characters: n,
			OverLimit:  n > MaxTweetLength,
		})
	}

	return tweets
}

// markers returns the start offsets of the thread numbering markers in text.
func markers(text string) [][]int {
	var (
		locs  [][]int
		total int
	)

	for _, m := range threadMarker.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		d, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			continue
		}

		if len(locs) == 0 {
			if n != 1 {
				continue
			}
			total = d
		} else if n != len(locs)+1 || d != total {
			continue
		}

		locs = append(locs, m[:2])
	}

	return locs
}

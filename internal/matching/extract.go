package matching

import (
	"regexp"
	"strings"
)

// trailing parenthetical and bracketed annotations, e.g. "(Official Video) [HD]"
const annotations = `(?:\s*\(.*\))?(?:\s*\[.*\])?$`

type titlePattern struct {
	re          *regexp.Regexp
	titleGroup  int
	artistGroup int
}

// Tried in order; the first pattern that matches decides the split.
var titlePatterns = []titlePattern{
	{re: regexp.MustCompile(`^(.+?)\s+[-–—]\s+(.+?)` + annotations), artistGroup: 1, titleGroup: 2},
	{re: regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+?)` + annotations), titleGroup: 1, artistGroup: 2},
	{re: regexp.MustCompile(`^(.+?)\s*\|\s*(.+?)` + annotations), artistGroup: 1, titleGroup: 2},
	// unspaced hyphen last, so "Song by Jay-Z" keeps its artist whole
	{re: regexp.MustCompile(`^(.+?)[-–—](.+?)` + annotations), artistGroup: 1, titleGroup: 2},
}

// ExtractTitleArtist guesses the track title and artist from a combined video
// title such as "Daft Punk - One More Time (Official Video)". When no known
// layout matches, the input is returned as the title with an empty artist.
func ExtractTitleArtist(combined string) (title, artist string) {
	trimmed := strings.TrimSpace(combined)
	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		title = strings.TrimSpace(m[p.titleGroup])
		artist = strings.TrimSpace(m[p.artistGroup])
		if title == "" || artist == "" {
			continue
		}
		return title, artist
	}
	return combined, ""
}

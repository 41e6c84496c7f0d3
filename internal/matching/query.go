package matching

import (
	"regexp"
	"strings"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

// MaxQueries bounds the number of destination searches issued per track.
const MaxQueries = 3

var (
	bracketedPattern  = regexp.MustCompile(`\(.*?\)|\[.*?\]`)
	featuringPattern  = regexp.MustCompile(`(?i)(?:\b(?:feat|ft|featuring|with|vs)\b|&).*$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanSearchString strips bracketed annotations and trailing featured-artist
// clauses from a track or artist name and collapses whitespace.
func CleanSearchString(s string) string {
	if s == "" {
		return ""
	}
	cleaned := bracketedPattern.ReplaceAllString(s, "")
	cleaned = featuringPattern.ReplaceAllString(cleaned, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// GenerateQueries builds the ordered search queries for a track. Artist and
// album qualified queries come first, the bare title is the fallback, and the
// list never exceeds MaxQueries entries.
func GenerateQueries(track domain.Track, opts domain.TransferOptions) []string {
	title := CleanSearchString(track.Name)
	if title == "" {
		title = strings.TrimSpace(track.Name)
	}
	artist := CleanSearchString(track.PrimaryArtist())

	var queries []string
	if opts.UseArtistInSearch && artist != "" {
		queries = append(queries, joinNonEmpty(artist, title), joinNonEmpty(title, artist))
	}
	if opts.UseAlbumInSearch && strings.TrimSpace(track.Album) != "" {
		queries = append(queries, joinNonEmpty(artist, title, CleanSearchString(track.Album)))
	}
	queries = append(queries, title)

	return capQueries(dedupe(queries), MaxQueries)
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func capQueries(queries []string, n int) []string {
	if len(queries) > n {
		return queries[:n]
	}
	return queries
}

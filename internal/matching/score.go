package matching

import (
	"math"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

const (
	titleWeight    = 0.5
	artistWeight   = 0.4
	durationWeight = 0.1

	// durationTolerance is the relative gap at which the duration score reaches 0.
	durationTolerance = 0.10
)

// Score returns the confidence in [0, 1] that candidate is the same recording
// as track. Title similarity, artist similarity against both the extracted
// artist and the uploader, and duration proximity are weighted 0.5/0.4/0.1.
func Score(track domain.Track, candidate domain.SearchCandidate) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0
		}
	}()

	candidateTitle, candidateArtist := ExtractTitleArtist(candidate.Title)

	titleScore := Similarity(track.Name, candidateTitle)

	artistScore := 0.0
	if len(track.Artists) > 0 {
		artists := track.ArtistLine(" ")
		artistScore = math.Max(
			Similarity(artists, candidateArtist),
			Similarity(artists, candidate.ChannelTitle),
		)
	}

	durationScore := durationProximity(track.DurationMs, ParseDurationMs(candidate.Duration))

	total := titleScore*titleWeight + artistScore*artistWeight + durationScore*durationWeight
	if math.IsNaN(total) {
		return 0
	}
	return clamp01(total)
}

// durationProximity is 1 when either duration is unknown.
func durationProximity(sourceMs, candidateMs int) float64 {
	if sourceMs <= 0 || candidateMs <= 0 {
		return 1.0
	}
	diff := math.Abs(float64(candidateMs - sourceMs))
	tolerance := float64(sourceMs) * durationTolerance
	return math.Max(0, 1-diff/tolerance)
}

// SelectBest scores every candidate and returns the highest-scoring one at or
// above minConfidence together with its score. Ties keep the earliest
// candidate. It returns nil when nothing qualifies.
func SelectBest(track domain.Track, candidates []domain.SearchCandidate, minConfidence float64) (*domain.SearchCandidate, float64) {
	var (
		best      *domain.SearchCandidate
		bestScore float64
	)
	for i := range candidates {
		s := Score(track, candidates[i])
		if s < minConfidence {
			continue
		}
		if best == nil || s > bestScore {
			c := candidates[i]
			best, bestScore = &c, s
		}
	}
	return best, bestScore
}

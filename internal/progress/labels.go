package progress

import (
	"math"

	"github.com/jonathan/talentfit/internal/types"
)

// MatchLabel grades a match score for the matching view.
func MatchLabel(score types.Score) string {
	s := score.Float()
	switch {
	case s >= 0.8:
		return "Excellent"
	case s >= 0.6:
		return "Good"
	case s >= 0.4:
		return "Fair"
	default:
		return "Poor"
	}
}

// MatchLevel buckets a match score for the dashboard.
func MatchLevel(score types.Score) string {
	s := score.Float()
	switch {
	case s > 0.7:
		return "High"
	case s > 0.4:
		return "Medium"
	default:
		return "Low"
	}
}

// Percent converts a [0,1] score to a rounded percentage.
func Percent(score types.Score) int {
	return int(math.Round(score.Float() * 100))
}

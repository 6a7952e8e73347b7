package services

import "mediascope/internal/models"

// ComputeStats summarizes the whole filtered set of logs. OverallLiked is a
// 0..1 ratio; AverageRating is nil when no log carries a rating.
func ComputeStats(logs []models.UserMediaLog) models.LogStats {
	stats := models.LogStats{TotalResults: len(logs)}

	var sum, rated int
	for _, l := range logs {
		if l.Liked != nil && *l.Liked {
			stats.TotalLiked++
		}
		if l.Rating != nil {
			sum += *l.Rating
			rated++
		}
	}

	if stats.TotalResults > 0 {
		stats.OverallLiked = float64(stats.TotalLiked) / float64(stats.TotalResults)
	}
	if rated > 0 {
		avg := float64(sum) / float64(rated)
		stats.AverageRating = &avg
	}
	return stats
}

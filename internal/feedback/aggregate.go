package feedback

import (
	"cmp"
	"slices"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// rankLecturers turns per-lecturer totals into a ranking, highest mean first.
// Equal means keep group order. limit <= 0 keeps every row.
func rankLecturers(groups []RatingGroup, limit int) []domain.LecturerRating {
	ratings := make([]domain.LecturerRating, 0, len(groups))
	for _, g := range groups {
		if g.Count == 0 {
			continue
		}
		ratings = append(ratings, domain.LecturerRating{
			LecturerName:  g.LecturerName,
			AverageRating: float64(g.Sum) / float64(g.Count),
			FeedbackCount: g.Count,
		})
	}

	slices.SortStableFunc(ratings, func(a, b domain.LecturerRating) int {
		return cmp.Compare(b.AverageRating, a.AverageRating)
	})

	if limit > 0 && len(ratings) > limit {
		ratings = ratings[:limit]
	}
	return ratings
}

// trendSeries turns per-lecturer-day totals into a series ordered by day.
// Rows of the same day keep group order.
func trendSeries(groups []RatingGroup) []domain.RatingTrend {
	trends := make([]domain.RatingTrend, 0, len(groups))
	for _, g := range groups {
		if g.Count == 0 {
			continue
		}
		trends = append(trends, domain.RatingTrend{
			LecturerName:  g.LecturerName,
			Date:          g.Date,
			AverageRating: float64(g.Sum) / float64(g.Count),
		})
	}

	// YYYY-MM-DD sorts lexically in date order.
	slices.SortStableFunc(trends, func(a, b domain.RatingTrend) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return trends
}

package feedback

import (
	"testing"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRankLecturers(t *testing.T) {
	groups := []RatingGroup{
		{LecturerName: "L1", Sum: 14, Count: 2},
		{LecturerName: "L2", Sum: 10, Count: 1},
	}

	got := rankLecturers(groups, 0)

	assert.Equal(t, []domain.LecturerRating{
		{LecturerName: "L2", AverageRating: 10, FeedbackCount: 1},
		{LecturerName: "L1", AverageRating: 7, FeedbackCount: 2},
	}, got)
}

func TestRankLecturers_TiesKeepGroupOrder(t *testing.T) {
	groups := []RatingGroup{
		{LecturerName: "first", Sum: 8, Count: 1},
		{LecturerName: "top", Sum: 9, Count: 1},
		{LecturerName: "second", Sum: 16, Count: 2},
		{LecturerName: "third", Sum: 8, Count: 1},
	}

	got := rankLecturers(groups, 0)

	names := make([]string, 0, len(got))
	for _, r := range got {
		names = append(names, r.LecturerName)
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, names)
}

func TestRankLecturers_Limit(t *testing.T) {
	groups := []RatingGroup{
		{LecturerName: "a", Sum: 5, Count: 1},
		{LecturerName: "b", Sum: 9, Count: 1},
		{LecturerName: "c", Sum: 7, Count: 1},
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"b", "c", "a"}},
		{-1, []string{"b", "c", "a"}},
		{2, []string{"b", "c"}},
		{10, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		got := rankLecturers(groups, tt.limit)
		names := make([]string, 0, len(got))
		for _, r := range got {
			names = append(names, r.LecturerName)
		}
		assert.Equal(t, tt.want, names, "limit=%d", tt.limit)
	}
}

func TestRankLecturers_Empty(t *testing.T) {
	got := rankLecturers(nil, 2)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTrendSeries(t *testing.T) {
	groups := []RatingGroup{
		{LecturerName: "L1", Date: "2024-03-02", Sum: 9, Count: 1},
		{LecturerName: "L2", Date: "2024-03-01", Sum: 12, Count: 2},
		{LecturerName: "L1", Date: "2024-03-01", Sum: 4, Count: 1},
	}

	got := trendSeries(groups)

	assert.Equal(t, []domain.RatingTrend{
		{LecturerName: "L2", Date: "2024-03-01", AverageRating: 6},
		{LecturerName: "L1", Date: "2024-03-01", AverageRating: 4},
		{LecturerName: "L1", Date: "2024-03-02", AverageRating: 9},
	}, got)
}

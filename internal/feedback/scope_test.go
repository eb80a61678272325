package feedback

import (
	"testing"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name   string
		caller domain.Identity
		want   Filter
	}{
		{"lecturer sees own reviews", domain.Identity{UserID: "l-1", Role: domain.RoleLecturer}, Filter{LecturerID: "l-1"}},
		{"student sees own submissions", domain.Identity{UserID: "s-1", Role: domain.RoleStudent}, Filter{UserID: "s-1"}},
		{"admin is unrestricted", domain.Identity{UserID: "a-1", Role: domain.RoleAdmin}, Filter{}},
		{"unknown role is scoped to author", domain.Identity{UserID: "x-1", Role: "guest"}, Filter{UserID: "x-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scope(tt.caller))
		})
	}
}

func TestFilter_With(t *testing.T) {
	scoped := Scope(domain.Identity{UserID: "s-1", Role: domain.RoleStudent})

	got := scoped.With(Query{LecturerName: "drsmith", Course: "CS101", Department: "CS"})

	assert.Equal(t, Filter{
		UserID:       "s-1",
		LecturerName: "drsmith",
		Course:       "CS101",
		Department:   "CS",
	}, got)
	assert.Equal(t, Filter{UserID: "s-1"}, scoped, "With must not mutate the receiver")
}

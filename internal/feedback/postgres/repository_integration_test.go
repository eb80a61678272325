//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/feedback"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}

	testPool, err = container.MigratedPool(ctx)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	code := m.Run()

	testPool.Close()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("terminate postgres: %v", err)
	}
	os.Exit(code)
}

var (
	lecturerA = uuid.NewString()
	lecturerB = uuid.NewString()
	studentA  = uuid.NewString()
	studentB  = uuid.NewString()
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	require.NoError(t, testutil.Truncate(context.Background(), testPool, "feedback"))
	return NewRepository(testPool)
}

func insert(t *testing.T, repo *Repository, lecturerID, lecturerName, author string, rating int, at time.Time) *domain.Feedback {
	t.Helper()
	fb := &domain.Feedback{
		ID:           uuid.NewString(),
		LecturerID:   lecturerID,
		LecturerName: lecturerName,
		Course:       "CS101",
		Feedback:     "fine",
		Rating:       rating,
		Department:   "Computer Science",
		UserID:       author,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	require.NoError(t, repo.Create(context.Background(), fb))
	return fb
}

func TestRepository_ListFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := insert(t, repo, lecturerA, "turing", studentA, 8, now)
	insert(t, repo, lecturerA, "turing", studentB, 6, now)
	insert(t, repo, lecturerB, "hopper", studentA, 9, now)

	tests := []struct {
		name      string
		filter    feedback.Filter
		wantCount int
	}{
		{"everything", feedback.Filter{}, 3},
		{"by lecturer id", feedback.Filter{LecturerID: lecturerA}, 2},
		{"by author", feedback.Filter{UserID: studentA}, 2},
		{"author and name", feedback.Filter{UserID: studentA, LecturerName: "hopper"}, 1},
		{"lecturer and foreign name", feedback.Filter{LecturerID: lecturerA, LecturerName: "hopper"}, 0},
		{"department", feedback.Filter{Department: "Maths"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.wantCount)
		})
	}

	all, err := repo.List(ctx, feedback.Filter{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestRepository_OwnedMutations(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	fb := insert(t, repo, lecturerA, "turing", studentA, 8, time.Now().UTC())

	rating := 2
	_, err := repo.UpdateOwned(ctx, fb.ID, studentB, domain.FeedbackPatch{Rating: &rating})
	assert.ErrorIs(t, err, domain.ErrNotFoundOrForbidden)

	_, err = repo.UpdateOwned(ctx, uuid.NewString(), studentA, domain.FeedbackPatch{Rating: &rating})
	assert.ErrorIs(t, err, domain.ErrNotFoundOrForbidden)

	_, err = repo.UpdateOwned(ctx, "not-a-uuid", studentA, domain.FeedbackPatch{Rating: &rating})
	assert.ErrorIs(t, err, domain.ErrNotFoundOrForbidden)

	updated, err := repo.UpdateOwned(ctx, fb.ID, studentA, domain.FeedbackPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "turing", updated.LecturerName)

	assert.ErrorIs(t, repo.DeleteOwned(ctx, fb.ID, studentB), domain.ErrNotFoundOrForbidden)
	require.NoError(t, repo.DeleteOwned(ctx, fb.ID, studentA))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, fb.ID, studentA), domain.ErrNotFoundOrForbidden)
}

func TestRepository_ListJoinsLecturerAccount(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, testutil.Truncate(ctx, testPool, "users"))
	_, err := testPool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, is_approved, email, name, surname)
		VALUES ($1, 'turing', 'x', 'lecturer', true, 'turing@uni.example', 'Alan', 'Turing')
	`, lecturerA)
	require.NoError(t, err)

	fb := insert(t, repo, lecturerA, "turing", studentA, 8, time.Now().UTC())
	insert(t, repo, lecturerB, "hopper", studentA, 9, time.Now().UTC())

	renamed := "someone else"
	_, err = repo.UpdateOwned(ctx, fb.ID, studentA, domain.FeedbackPatch{LecturerName: &renamed})
	require.NoError(t, err)

	items, err := repo.List(ctx, feedback.Filter{UserID: studentA})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "someone else", items[0].LecturerName)
	require.NotNil(t, items[0].Lecturer)
	assert.Equal(t, domain.LecturerRef{ID: lecturerA, Username: "turing"}, *items[0].Lecturer)

	// lecturerB has no account row.
	assert.Nil(t, items[1].Lecturer)
}

func TestRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	fb := insert(t, repo, lecturerA, "turing", studentA, 8, time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, fb.ID))
	assert.ErrorIs(t, repo.Delete(ctx, fb.ID), feedback.ErrFeedbackNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), feedback.ErrFeedbackNotFound)
}

func TestRepository_RatingCheckConstraint(t *testing.T) {
	repo := newRepo(t)

	err := repo.Create(context.Background(), &domain.Feedback{
		ID:           uuid.NewString(),
		LecturerID:   lecturerA,
		LecturerName: "turing",
		Course:       "CS101",
		Feedback:     "x",
		Rating:       11,
		Department:   "CS",
		UserID:       studentA,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	assert.Error(t, err)
}

func TestRepository_GroupRatings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	day1 := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)

	insert(t, repo, lecturerA, "turing", studentA, 6, day1)
	insert(t, repo, lecturerB, "hopper", studentA, 9, day1)
	insert(t, repo, lecturerA, "turing", studentB, 8, day1)
	insert(t, repo, lecturerA, "turing", studentB, 4, day2)

	t.Run("by lecturer", func(t *testing.T) {
		groups, err := repo.GroupRatings(ctx, feedback.ByLecturer)
		require.NoError(t, err)
		assert.Equal(t, []feedback.RatingGroup{
			{LecturerName: "turing", Sum: 18, Count: 3},
			{LecturerName: "hopper", Sum: 9, Count: 1},
		}, groups)
	})

	t.Run("by lecturer and day", func(t *testing.T) {
		groups, err := repo.GroupRatings(ctx, feedback.ByLecturerDay)
		require.NoError(t, err)
		assert.Equal(t, []feedback.RatingGroup{
			{LecturerName: "turing", Date: "2024-03-01", Sum: 14, Count: 2},
			{LecturerName: "hopper", Date: "2024-03-01", Sum: 9, Count: 1},
			{LecturerName: "turing", Date: "2024-03-02", Sum: 4, Count: 1},
		}, groups)
	})

	t.Run("empty store", func(t *testing.T) {
		require.NoError(t, testutil.Truncate(ctx, testPool, "feedback"))
		groups, err := repo.GroupRatings(ctx, feedback.ByLecturer)
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func sampleJob(id string) domain.Job {
	return domain.Job{
		ID:         id,
		Title:      "Backend Engineer",
		Company:    "Acme",
		Location:   "Remote",
		URL:        "https://example.com/jobs/" + id,
		Source:     domain.SourceLinkedIn,
		RawText:    "Backend Engineer Acme Remote",
		ReceivedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestInsertJobIfAbsent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.InsertJobIfAbsent(ctx, sampleJob("a1b2c3d4e5f60718"))
	require.NoError(t, err)
	assert.True(t, created)

	// same identity again is a no-op
	created, err = db.InsertJobIfAbsent(ctx, sampleJob("a1b2c3d4e5f60718"))
	require.NoError(t, err)
	assert.False(t, created)

	got, err := db.GetJob(ctx, "a1b2c3d4e5f60718")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "Acme", got.Company)
}

func TestInsertJobValidation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.InsertJobIfAbsent(ctx, domain.Job{URL: "https://x"})
	assert.Error(t, err, "id is required")

	_, err = db.InsertJobIfAbsent(ctx, domain.Job{ID: "abc"})
	assert.Error(t, err, "url is required")

	j := sampleJob("ffff000011112222")
	j.Company = ""
	created, err := db.InsertJobIfAbsent(ctx, j)
	require.NoError(t, err)
	require.True(t, created)
	got, err := db.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", got.Company)
}

func TestGetJobAbsent(t *testing.T) {
	db := testDB(t)
	got, err := db.GetJob(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertNeverClobbersExisting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	j := sampleJob("1111222233334444")
	_, err := db.InsertJobIfAbsent(ctx, j)
	require.NoError(t, err)

	require.NoError(t, db.UpdateStatus(ctx, j.ID, domain.StatusApplied))
	require.NoError(t, db.SetAnalysis(ctx, j.ID, 91, `{"fit":"great"}`))
	require.NoError(t, db.SetCoverLetter(ctx, j.ID, "Dear Acme,"))

	// the same posting arrives again with different parsed fields
	again := j
	again.Title = "Backend Engineer II"
	again.RawText = "different raw text"
	created, err := db.InsertJobIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := db.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title, "original row untouched")
	assert.Equal(t, domain.StatusApplied, got.Status)
	assert.Equal(t, 91, got.Score)
	assert.Equal(t, `{"fit":"great"}`, got.Analysis)
	assert.Equal(t, "Dear Acme,", got.CoverLetter)
}

func TestEnrichJobOnlyFillsBlank(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	j := sampleJob("aaaa111122223333")
	j.RawText = ""
	_, err := db.InsertJobIfAbsent(ctx, j)
	require.NoError(t, err)

	require.NoError(t, db.EnrichJob(ctx, j.ID, "full description", "raw text"))
	got, err := db.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "full description", got.Description)
	assert.Equal(t, "raw text", got.RawText)

	require.NoError(t, db.EnrichJob(ctx, j.ID, "replacement description", "replacement raw"))
	got, err = db.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "full description", got.Description, "non-blank fields stay")
	assert.Equal(t, "raw text", got.RawText)
}

func TestUpdateStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	j := sampleJob("bbbb111122223333")
	_, err := db.InsertJobIfAbsent(ctx, j)
	require.NoError(t, err)

	require.NoError(t, db.UpdateStatus(ctx, j.ID, domain.StatusInterested))
	got, _ := db.GetJob(ctx, j.ID)
	assert.Equal(t, domain.StatusInterested, got.Status)

	assert.Error(t, db.UpdateStatus(ctx, j.ID, "daydreaming"), "unknown status rejected")
	assert.Error(t, db.UpdateStatus(ctx, "missing", domain.StatusApplied), "absent id rejected")
}

func TestListJobsFiltersAndOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := sampleJob("0000000000000001")
	b := sampleJob("0000000000000002")
	c := sampleJob("0000000000000003")
	b.ReceivedAt = a.ReceivedAt.Add(time.Hour)
	c.ReceivedAt = a.ReceivedAt.Add(2 * time.Hour)
	for _, j := range []domain.Job{a, b, c} {
		_, err := db.InsertJobIfAbsent(ctx, j)
		require.NoError(t, err)
	}

	require.NoError(t, db.SetAnalysis(ctx, a.ID, 90, "{}"))
	require.NoError(t, db.SetAnalysis(ctx, b.ID, 40, "{}"))
	require.NoError(t, db.UpdateStatus(ctx, c.ID, domain.StatusInterested))

	// order: score desc, then recency
	all, err := db.ListJobs(ctx, ListJobsOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assert.Equal(t, c.ID, all[2].ID)

	scored, err := db.ListJobs(ctx, ListJobsOpts{MinScore: 50})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, a.ID, scored[0].ID)

	interested, err := db.ListJobs(ctx, ListJobsOpts{Status: domain.StatusInterested})
	require.NoError(t, err)
	require.Len(t, interested, 1)
	assert.Equal(t, c.ID, interested[0].ID)

	limited, err := db.ListJobs(ctx, ListJobsOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestJobStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for i, id := range []string{"0000000000000011", "0000000000000012", "0000000000000013"} {
		j := sampleJob(id)
		_, err := db.InsertJobIfAbsent(ctx, j)
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, db.UpdateStatus(ctx, id, domain.StatusApplied))
		}
	}

	s, err := db.JobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.New)
	assert.Equal(t, 1, s.Applied)
}

func TestCleanupOldJobs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	old := sampleJob("0000000000000021")
	old.ReceivedAt = time.Now().UTC().Add(-90 * 24 * time.Hour)
	fresh := sampleJob("0000000000000022")
	fresh.ReceivedAt = time.Now().UTC()
	kept := sampleJob("0000000000000023")
	kept.ReceivedAt = time.Now().UTC().Add(-90 * 24 * time.Hour)

	for _, j := range []domain.Job{old, fresh, kept} {
		_, err := db.InsertJobIfAbsent(ctx, j)
		require.NoError(t, err)
	}
	// user touched this one; retention never removes it
	require.NoError(t, db.UpdateStatus(ctx, kept.ID, domain.StatusInterested))

	n, err := db.CleanupOldJobs(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	gone, _ := db.GetJob(ctx, old.ID)
	assert.Nil(t, gone)
	still, _ := db.GetJob(ctx, kept.ID)
	assert.NotNil(t, still)
}

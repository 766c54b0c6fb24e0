package store_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/projectctl/internal/config"
	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/remote"
	"github.com/fyrsmithlabs/projectctl/internal/server"
	"github.com/fyrsmithlabs/projectctl/internal/store"
	"github.com/fyrsmithlabs/projectctl/internal/view"
)

func newIntegrationStore(t *testing.T) *store.Store {
	t.Helper()
	srv, err := server.NewServer(server.NewMemoryRepository(), logging.NewNop(), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default().Remote
	cfg.BaseURL = ts.URL
	client, err := remote.New(cfg)
	require.NoError(t, err)
	return store.New(client)
}

func draft(name, start, end string) project.Draft {
	return project.Draft{
		Name:        name,
		Description: "first\nsecond",
		StartDate:   start,
		StartTime:   "09:30 AM",
		EndDate:     end,
		EndTime:     "12:15 PM",
	}
}

func TestIntegration_CreateListSortRemove(t *testing.T) {
	ctx := context.Background()
	s := newIntegrationStore(t)

	require.NoError(t, s.Load(ctx))
	assert.Zero(t, s.Snapshot().Len())

	for _, d := range []project.Draft{
		draft("Roof", "2024-06-01", "2024-06-10"),
		draft("attic", "2024-02-01", "2024-02-03"),
		draft("Basement", "2024-04-01", "2024-04-02"),
	} {
		p, err := project.FromDraft(d)
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, p))
	}

	snap := s.Snapshot()
	require.Equal(t, 3, snap.Len())
	first := snap.Projects()[0]
	assert.Equal(t, "Roof", first.Name)
	assert.Equal(t, "first. second", first.Description)
	assert.Equal(t, "2024-06-01 09:30", first.StartDate)
	assert.Equal(t, "2024-06-10 12:15", first.EndDate)

	names := func(ps []project.Project) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}

	assert.Equal(t, []string{"attic", "Basement", "Roof"}, names(s.ApplySort(view.NameAscending).Projects()))
	assert.Equal(t, []string{"Roof", "Basement", "attic"}, names(s.ApplySort(view.DateDescending).Projects()))
	assert.Equal(t, []string{"Basement"}, names(s.Visible("base")))

	require.NoError(t, s.Remove(ctx, first.ID))
	assert.Equal(t, 2, s.Snapshot().Len())
	for _, p := range s.Snapshot().Projects() {
		assert.NotEqual(t, first.ID, p.ID)
	}

	// Unknown ids are forwarded; the service answers 404 and the store reloads.
	require.NoError(t, s.Remove(ctx, "does-not-exist"))
	assert.Equal(t, 2, s.Snapshot().Len())
}

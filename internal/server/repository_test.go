package server

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/projectctl/internal/project"
)

func sample(name string) project.Project {
	return project.Project{
		Name:        name,
		Description: "desc",
		StartDate:   "2024-01-01 09:00",
		EndDate:     "2024-01-05 17:00",
	}
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	tests := []struct {
		name    string
		input   project.Project
		wantErr error
	}{
		{name: "valid project", input: sample("Garden")},
		{name: "empty name", input: sample("  "), wantErr: project.ErrEmptyProjectName},
		{name: "bad start", input: project.Project{Name: "x", StartDate: "soon", EndDate: "2024-01-01"}, wantErr: project.ErrInvalidDate},
		{name: "bad end", input: project.Project{Name: "x", StartDate: "2024-01-01", EndDate: ""}, wantErr: project.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			_, perr := uuid.Parse(got.ID.String())
			assert.NoError(t, perr)
			assert.Equal(t, tt.input.Name, got.Name)
		})
	}
}

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, name := range []string{"c", "a", "b"} {
		_, err := repo.Create(ctx, sample(name))
		require.NoError(t, err)
	}

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "c", projects[0].Name)
	assert.Equal(t, "a", projects[1].Name)
	assert.Equal(t, "b", projects[2].Name)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	a, err := repo.Create(ctx, sample("a"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, sample("b"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, a.ID))

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, b.ID, projects[0].ID)

	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrProjectNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ""), project.ErrEmptyProjectID)
}

func TestRepository_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := repo.Create(ctx, sample(fmt.Sprintf("p%d", i)))
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			if _, err := repo.List(ctx); err != nil {
				t.Errorf("list: %v", err)
			}
			if i%2 == 0 {
				if err := repo.Delete(ctx, p.ID); err != nil {
					t.Errorf("delete: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 10)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/projectctl/internal/project"
)

// ErrProjectNotFound is returned when no project has the requested id.
var ErrProjectNotFound = errors.New("project not found")

// Repository provides storage for the project service.
type Repository interface {
	// Create stores p under a new id and returns the stored record.
	Create(ctx context.Context, p project.Project) (project.Project, error)

	// List returns all projects in insertion order.
	List(ctx context.Context) ([]project.Project, error)

	// Delete removes a project by id.
	Delete(ctx context.Context, id project.ID) error
}

// memoryRepository implements Repository with in-memory storage.
type memoryRepository struct {
	mu       sync.RWMutex
	projects map[project.ID]project.Project
	order    []project.ID
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		projects: make(map[project.ID]project.Project),
	}
}

func (r *memoryRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return project.Project{}, project.ErrEmptyProjectName
	}
	if _, err := project.ParseDay(p.StartDate); err != nil {
		return project.Project{}, fmt.Errorf("startDate: %w", err)
	}
	if _, err := project.ParseDay(p.EndDate); err != nil {
		return project.Project{}, fmt.Errorf("endDate: %w", err)
	}

	p.ID = project.ID(uuid.New().String())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects[p.ID] = p
	r.order = append(r.order, p.ID)

	return p, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]project.Project, 0, len(r.order))
	for _, id := range r.order {
		projects = append(projects, r.projects[id])
	}

	return projects, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id project.ID) error {
	if id == "" {
		return project.ErrEmptyProjectID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}

	delete(r.projects, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

package store

import "github.com/fyrsmithlabs/projectctl/internal/project"

// Snapshot is an immutable view of the collection at one point in time.
// The zero value is an empty collection.
type Snapshot struct {
	projects []project.Project
}

func newSnapshot(projects []project.Project) Snapshot {
	cp := make([]project.Project, len(projects))
	copy(cp, projects)
	return Snapshot{projects: cp}
}

// Len returns the number of projects.
func (s Snapshot) Len() int {
	return len(s.projects)
}

// Projects returns a copy of the collection in order.
func (s Snapshot) Projects() []project.Project {
	cp := make([]project.Project, len(s.projects))
	copy(cp, s.projects)
	return cp
}

package store

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, path string) *Project {
	t.Helper()
	p, err := s.CreateProject(path)
	if err != nil {
		t.Fatalf("CreateProject(%q): %v", path, err)
	}
	return p
}

func TestCreateProjectHierarchy(t *testing.T) {
	s := newTestStore(t)

	root := mustCreate(t, s, "Client")
	if root.Parent != nil {
		t.Errorf("root project has parent %v", *root.Parent)
	}

	child := mustCreate(t, s, "Client.Backend")
	if child.Parent == nil || *child.Parent != root.ID {
		t.Errorf("child parent = %v, want %d", child.Parent, root.ID)
	}
	if child.Path != "Client.Backend" {
		t.Errorf("child path = %q", child.Path)
	}

	leaf := mustCreate(t, s, "Client.Backend.API")
	if leaf.Name != "API" {
		t.Errorf("leaf name = %q", leaf.Name)
	}
}

func TestCreateProjectMissingParent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateProject("Client.Backend")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound for missing ancestor, got %v", err)
	}
}

func TestCreateProjectDuplicate(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "Client")

	_, err := s.CreateProject("Client")
	if !errors.Is(err, ErrProjectExists) {
		t.Errorf("expected ErrProjectExists, got %v", err)
	}

	// Same leaf name under a different parent is fine.
	mustCreate(t, s, "Personal")
	mustCreate(t, s, "Personal.Client")
}

func TestCreateProjectInvalidName(t *testing.T) {
	s := newTestStore(t)

	for _, path := range []string{"", " ", "a..b", "Client."} {
		if _, err := s.CreateProject(path); err == nil {
			t.Errorf("CreateProject(%q): expected error", path)
		}
	}
}

func TestProjectByPath(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "Client")
	want := mustCreate(t, s, "Client.Backend")

	got, err := s.ProjectByPath("Client.Backend")
	if err != nil {
		t.Fatalf("ProjectByPath: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("got id %d, want %d", got.ID, want.ID)
	}

	if _, err := s.ProjectByPath("Client.Frontend"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectsSortedByPath(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "Personal")
	mustCreate(t, s, "Client")
	mustCreate(t, s, "Client.Backend")
	mustCreate(t, s, "Client.API")

	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	want := []string{"Client", "Client.API", "Client.Backend", "Personal"}
	if len(projects) != len(want) {
		t.Fatalf("got %d projects, want %d", len(projects), len(want))
	}
	for i, p := range projects {
		if p.Path != want[i] {
			t.Errorf("projects[%d] = %q, want %q", i, p.Path, want[i])
		}
	}
}

func TestRenameProject(t *testing.T) {
	s := newTestStore(t)
	client := mustCreate(t, s, "Client")
	mustCreate(t, s, "Client.Backend")

	if err := s.RenameProject(client.ID, "Acme"); err != nil {
		t.Fatalf("RenameProject: %v", err)
	}

	// Descendant paths follow the rename.
	if _, err := s.ProjectByPath("Acme.Backend"); err != nil {
		t.Errorf("expected Acme.Backend after rename: %v", err)
	}
	if _, err := s.ProjectByPath("Client.Backend"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("old path should be gone, got %v", err)
	}
}

func TestRenameProjectCollision(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "Client")
	other := mustCreate(t, s, "Personal")

	if err := s.RenameProject(other.ID, "Client"); !errors.Is(err, ErrProjectExists) {
		t.Errorf("expected ErrProjectExists, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	s := newTestStore(t)
	client := mustCreate(t, s, "Client")
	backend := mustCreate(t, s, "Client.Backend")

	// Parent with children is refused.
	if err := s.DeleteProject(client.ID); !errors.Is(err, ErrProjectInUse) {
		t.Errorf("expected ErrProjectInUse for parent, got %v", err)
	}

	// Leaf with records is refused.
	if _, err := s.StartRecord(backend.ID, periodStart, nil, ""); err != nil {
		t.Fatalf("StartRecord: %v", err)
	}
	if err := s.DeleteProject(backend.ID); !errors.Is(err, ErrProjectInUse) {
		t.Errorf("expected ErrProjectInUse for project with records, got %v", err)
	}

	// Drop the record, then delete bottom-up.
	records, _ := s.OpenRecords()
	if _, err := s.DeleteRecords([]int64{records[0].ID}); err != nil {
		t.Fatalf("DeleteRecords: %v", err)
	}
	if err := s.DeleteProject(backend.ID); err != nil {
		t.Fatalf("DeleteProject(leaf): %v", err)
	}
	if err := s.DeleteProject(client.ID); err != nil {
		t.Fatalf("DeleteProject(root): %v", err)
	}

	projects, _ := s.Projects()
	if len(projects) != 0 {
		t.Errorf("expected empty project list, got %d", len(projects))
	}
}

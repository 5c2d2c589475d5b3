package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tnorth/worktime/internal/sqlutil"
)

// PathSeparator joins project path segments ("Client.Backend.API").
const PathSeparator = "."

// Project is a node in the project tree.
type Project struct {
	ID        int64
	Parent    *int64
	Name      string // single segment, no separator
	Path      string // full dotted path, derived from the tree
	CreatedAt time.Time
}

// SplitPath splits a dotted project path into segments.
func SplitPath(path string) []string {
	return strings.Split(strings.TrimSpace(path), PathSeparator)
}

// ValidateSegment checks a single project name segment.
func ValidateSegment(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if strings.Contains(name, PathSeparator) {
		return fmt.Errorf("project name %q must not contain %q", name, PathSeparator)
	}
	return nil
}

// Node is a project with resolved children, produced by Tree.
type Node struct {
	Project
	Children []*Node
}

// Tree is the full project hierarchy with index lookups.
type Tree struct {
	Roots  []*Node
	byID   map[int64]*Node
	byPath map[string]*Node
}

// ByID returns the node for a project id.
func (t *Tree) ByID(id int64) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// ByPath returns the node for a full dotted path.
func (t *Tree) ByPath(path string) (*Node, bool) {
	n, ok := t.byPath[strings.TrimSpace(path)]
	return n, ok
}

// Subtree returns the ids of all descendants of id, not including id itself.
func (t *Tree) Subtree(id int64) []int64 {
	n, ok := t.byID[id]
	if !ok {
		return nil
	}
	var ids []int64
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			ids = append(ids, c.ID)
			walk(c)
		}
	}
	walk(n)
	return ids
}

// Walk visits every node depth-first in path order, reporting its depth.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range t.Roots {
		walk(r, 0)
	}
}

// Paths returns a map from project id to full dotted path.
func (t *Tree) Paths() map[int64]string {
	paths := make(map[int64]string, len(t.byID))
	for id, n := range t.byID {
		paths[id] = n.Path
	}
	return paths
}

// Tree loads the whole project hierarchy.
func (s *Store) Tree() (*Tree, error) {
	rows, err := s.db.Query(`SELECT id, parent, name, created_at FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	nodes, err := sqlutil.ScanRows(rows, scanProjectNode)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		byID:   make(map[int64]*Node, len(nodes)),
		byPath: make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		t.byID[n.ID] = n
	}
	for _, n := range nodes {
		if n.Parent == nil {
			t.Roots = append(t.Roots, n)
			continue
		}
		parent, ok := t.byID[*n.Parent]
		if !ok {
			return nil, fmt.Errorf("project %d references missing parent %d", n.ID, *n.Parent)
		}
		parent.Children = append(parent.Children, n)
	}

	sortChildren(t.Roots)
	for _, n := range t.byID {
		sortChildren(n.Children)
	}

	// Compute dotted paths top-down.
	t.Walk(func(n *Node, depth int) {
		if n.Parent != nil {
			n.Path = t.byID[*n.Parent].Path + PathSeparator + n.Name
		} else {
			n.Path = n.Name
		}
		t.byPath[n.Path] = n
	})

	return t, nil
}

func scanProjectNode(rows *sql.Rows) (*Node, error) {
	var n Node
	var parent sql.NullInt64
	var createdAt int64
	if err := rows.Scan(&n.ID, &parent, &n.Name, &createdAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		n.Parent = &parent.Int64
	}
	n.CreatedAt = time.Unix(createdAt, 0)
	return &n, nil
}

func sortChildren(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
}

// Projects returns all projects with resolved paths, sorted by path.
func (s *Store) Projects() ([]Project, error) {
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var projects []Project
	t.Walk(func(n *Node, depth int) {
		projects = append(projects, n.Project)
	})
	return projects, nil
}

// ProjectByPath resolves a full dotted path to a project.
func (s *Store) ProjectByPath(path string) (*Project, error) {
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	n, ok := t.ByPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, path)
	}
	p := n.Project
	return &p, nil
}

// ProjectByID returns a project by id with its path resolved.
func (s *Store) ProjectByID(id int64) (*Project, error) {
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	n, ok := t.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrProjectNotFound, id)
	}
	p := n.Project
	return &p, nil
}

// CreateProject creates the project named by a full dotted path. All
// ancestors must already exist; only the leaf is created.
func (s *Store) CreateProject(path string) (*Project, error) {
	segments := SplitPath(path)
	for _, seg := range segments {
		if err := ValidateSegment(seg); err != nil {
			return nil, err
		}
	}

	t, err := s.Tree()
	if err != nil {
		return nil, err
	}

	if _, exists := t.ByPath(strings.Join(segments, PathSeparator)); exists {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, path)
	}

	var parentID *int64
	if len(segments) > 1 {
		parentPath := strings.Join(segments[:len(segments)-1], PathSeparator)
		parent, ok := t.ByPath(parentPath)
		if !ok {
			return nil, fmt.Errorf("%w: parent %s (create it first)", ErrProjectNotFound, parentPath)
		}
		parentID = &parent.ID
	}

	name := segments[len(segments)-1]
	now := time.Now()
	res, err := s.db.Exec(`INSERT INTO projects (parent, name, created_at) VALUES (?, ?, ?)`,
		parentID, name, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Project{
		ID:        id,
		Parent:    parentID,
		Name:      name,
		Path:      strings.Join(segments, PathSeparator),
		CreatedAt: now,
	}, nil
}

// RenameProject changes the final path segment of a project. Descendant
// paths follow automatically since paths are derived from the tree.
func (s *Store) RenameProject(id int64, newName string) error {
	if err := ValidateSegment(newName); err != nil {
		return err
	}

	t, err := s.Tree()
	if err != nil {
		return err
	}
	n, ok := t.ByID(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrProjectNotFound, id)
	}

	// Reject collisions against siblings up front for a clean error.
	siblings := t.Roots
	if n.Parent != nil {
		parent, _ := t.ByID(*n.Parent)
		siblings = parent.Children
	}
	for _, sib := range siblings {
		if sib.ID != id && sib.Name == newName {
			return fmt.Errorf("%w: %s", ErrProjectExists, newName)
		}
	}

	if _, err := s.db.Exec(`UPDATE projects SET name = ? WHERE id = ?`, newName, id); err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
	}
	return nil
}

// DeleteProject removes a project. It is refused while the project, or any
// descendant, still has records attached.
func (s *Store) DeleteProject(id int64) error {
	t, err := s.Tree()
	if err != nil {
		return err
	}
	n, ok := t.ByID(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrProjectNotFound, id)
	}
	if len(n.Children) > 0 {
		return fmt.Errorf("%w: %s has subprojects", ErrProjectInUse, n.Path)
	}

	ids := idStrings(append(t.Subtree(id), id))
	placeholders, args := sqlutil.InClauseArgs(ids)
	var count int
	err = s.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM records WHERE project_id IN (%s)`, placeholders),
		args...,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s has %d records", ErrProjectInUse, n.Path, count)
	}

	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func idStrings(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%d", id)
	}
	return out
}

package store

import "errors"

var (
	// ErrProjectNotFound indicates the requested project (or an ancestor in
	// a dotted path) does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists indicates a project with the same name already exists
	// under the same parent.
	ErrProjectExists = errors.New("project already exists")

	// ErrProjectInUse indicates the project or one of its descendants still
	// has records attached and cannot be deleted.
	ErrProjectInUse = errors.New("project is in use by records")

	// ErrRecordNotFound indicates the requested record id is not in the store.
	ErrRecordNotFound = errors.New("record not found")
)

package sqlite

import (
	"database/sql"

	"github.com/arktoria/acolors/internal/repository"
)

// Store wires SQLite-backed repository implementations. The *sql.DB handle
// is shared by every repository; concurrent use is serialized by the profile
// task worker, which exclusively owns the store.
type Store struct {
	db      *sql.DB
	groups  repository.GroupRepository
	nodes   repository.NodeRepository
	runtime repository.RuntimeRepository
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		groups:  &groupRepo{db: db},
		nodes:   &nodeRepo{db: db},
		runtime: &runtimeRepo{db: db},
	}
}

func (s *Store) Groups() repository.GroupRepository {
	return s.groups
}

func (s *Store) Nodes() repository.NodeRepository {
	return s.nodes
}

func (s *Store) Runtime() repository.RuntimeRepository {
	return s.runtime
}

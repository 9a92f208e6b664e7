package category

import (
	"context"

	"github.com/google/uuid"
)

// Kind identifies which category forest a node belongs to. Each project
// holds one forest per kind.
type Kind string

const (
	KindIncome     Kind = "income"
	KindExpense    Kind = "expense"
	KindProduction Kind = "production"
)

// IsValid checks if the kind is a valid category Kind
func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindProduction:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Node is one category row. The tree CRUD (create/rename/reparent) lives
// outside this service; nodes are consumed here as slowly-changing
// reference data and assembled into trees by BuildForest.
type Node struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	Kind         Kind
	Label        string
	ParentID     *uuid.UUID
	DisplayOrder int
	Active       bool
}

// Repository is the read-only port for category nodes
type Repository interface {
	// FindByKind returns every declared node of the forest, active or not,
	// in stored order
	FindByKind(ctx context.Context, projectID uuid.UUID, kind Kind) ([]*Node, error)
	// FindByID loads a single node; shared.ErrNotFound when absent
	FindByID(ctx context.Context, projectID, id uuid.UUID) (*Node, error)
}

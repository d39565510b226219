// Package store is the entity store: repository style access to users,
// roles, profiles and role assignments, grouped into units of work.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/hugh/go-roster/internal/apperr"
	"gorm.io/gorm"
)

const (
	CodeDuplicateKey       = "DUPLICATE_KEY"
	CodeReferenceConflict  = "REFERENCE_CONFLICT"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

var (
	ErrDuplicateKey       = apperr.New(apperr.Conflict, CodeDuplicateKey, "record conflicts with an existing record")
	ErrReferenceConflict  = apperr.New(apperr.Conflict, CodeReferenceConflict, "record references a missing or changed record")
	ErrPersistenceFailure = apperr.New(apperr.Persistence, CodePersistenceFailure, "storage failure")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Tx is a handle bound to one unit of work, or to plain reads when obtained
// from Reader.
type Tx struct {
	db *gorm.DB
}

// Atomic runs fn in a single transaction. Any error returned by fn rolls
// back every write fn made; the error comes back classified.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Tx{db: db})
	})
	return classify(err)
}

// Reader returns a handle for reads outside a unit of work.
func (s *Store) Reader(ctx context.Context) *Tx {
	return &Tx{db: s.db.WithContext(ctx)}
}

// classify maps driver errors onto the apperr taxonomy. Errors that are
// already classified pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicateKey.Wrap(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolation(err):
		return ErrReferenceConflict.Wrap(err)
	default:
		return ErrPersistenceFailure.Wrap(err)
	}
}

// Fallbacks for dialects whose translator misses a case.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}

// notFound turns gorm.ErrRecordNotFound into a nil record.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

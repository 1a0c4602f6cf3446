package types

import (
	"fmt"

	ierr "github.com/billforge/billforge/internal/errors"
)

// SequenceScope identifies the series a sequential id belongs to: the kind
// of record being numbered plus the entity that owns the numbering, for
// example (invoice, organization id). Contiguity is guaranteed within a
// scope and never across scopes.
type SequenceScope struct {
	EntityType string `json:"entity_type" validate:"required"`
	OwnerID    string `json:"owner_id" validate:"required"`
}

// LockKey is the cooperative lock name serializing assignment in this scope.
func (s SequenceScope) LockKey() string {
	return fmt.Sprintf("seq:%s:%s", s.EntityType, s.OwnerID)
}

func (s SequenceScope) String() string {
	return s.LockKey()
}

func (s SequenceScope) Validate() error {
	if s.EntityType == "" || s.OwnerID == "" {
		return ierr.NewError("invalid sequence scope").
			WithHint("Sequence scope requires an entity type and an owner id").
			WithReportableDetails(map[string]any{
				"entity_type": s.EntityType,
				"owner_id":    s.OwnerID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

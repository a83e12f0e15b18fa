package events

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/platform/querier"
)

// Entry is one audit record. Value fields are optional: scalar changes carry
// only the values, relation changes carry the referenced row ids as well.
type Entry struct {
	SubjectID  string
	Name       string
	OldValue   *string
	OldValueID *string
	NewValue   *string
	NewValueID *string
	ActorID    string
}

// Simple builds an entry for a scalar change (no referenced ids).
func Simple(subjectID, name string, oldValue, newValue *string, actorID string) Entry {
	return Entry{SubjectID: subjectID, Name: name, OldValue: oldValue, NewValue: newValue, ActorID: actorID}
}

// Relation builds an entry for a foreign-key change, carrying both the
// human-readable labels and the row ids on each side.
func Relation(subjectID, name string, oldValue, oldValueID, newValue, newValueID *string, actorID string) Entry {
	return Entry{
		SubjectID:  subjectID,
		Name:       name,
		OldValue:   oldValue,
		OldValueID: oldValueID,
		NewValue:   newValue,
		NewValueID: newValueID,
		ActorID:    actorID,
	}
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record appends one immutable event row. The write is synchronous: callers
// inside a transaction pass the tx as q so the event commits or rolls back
// with the mutation it describes. Errors always propagate; a mutation whose
// audit write failed is not considered applied.
func (s *Service) Record(ctx context.Context, q querier.Querier, kind Kind, entry Entry) error {
	if !KnownEvent(kind, entry.Name) {
		return fmt.Errorf("unknown %s event name %q", kind, entry.Name)
	}
	if q == nil {
		q = s.DB
	}

	table := "employee_events"
	subjectCol := "employee_id"
	if kind == KindCompany {
		table = "company_events"
		subjectCol = "company_id"
	}

	_, err := q.Exec(ctx, `
    INSERT INTO `+table+` (`+subjectCol+`, event_name, old_value, old_value_id, new_value, new_value_id, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, entry.SubjectID, entry.Name, entry.OldValue, entry.OldValueID, entry.NewValue, entry.NewValueID, entry.ActorID)
	if err != nil {
		return fmt.Errorf("record %s event %s: %w", kind, entry.Name, err)
	}
	return nil
}

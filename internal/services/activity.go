package services

import (
	"github.com/hiyona/orgflow-api/internal/models"
)

// newActivity builds an audit-trail entry for a mutation caused by actor.
// SubjectID may still be zero for creations; the repository fills it in
// once the row exists.
func newActivity(actor models.User, subjectType models.ActivitySubject, subjectID uint64, event models.ActivityEvent, changes models.JSONMap) *models.ActivityLogEntry {
	return &models.ActivityLogEntry{
		OrganizationID: actor.OrganizationID,
		SubjectType:    subjectType,
		SubjectID:      subjectID,
		Event:          event,
		CauserID:       actor.ID,
		Changes:        changes,
	}
}

// attributeChange records one dirty attribute as {"old": ..., "new": ...}.
func attributeChange(old, new interface{}) models.JSONMap {
	return models.JSONMap{"old": old, "new": new}
}

func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefUint64(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func uint64PtrEqual(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores a JSON object in a text/json column.
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	return string(b), err
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	return json.Unmarshal(bytes, j)
}

type ActivityEvent string

const (
	ActivityCreated  ActivityEvent = "created"
	ActivityUpdated  ActivityEvent = "updated"
	ActivityDeleted  ActivityEvent = "deleted"
	ActivityRestored ActivityEvent = "restored"
)

type ActivitySubject string

const (
	SubjectTask    ActivitySubject = "task"
	SubjectProject ActivitySubject = "project"
)

// ActivityLogEntry is the append-only audit trail. Changes holds the dirty
// attributes as {"attr": {"old": ..., "new": ...}}.
type ActivityLogEntry struct {
	ID             uint64          `gorm:"primarykey" json:"id"`
	OrganizationID uint64          `gorm:"not null;index" json:"organization_id"`
	SubjectType    ActivitySubject `gorm:"type:varchar(20);not null;index:idx_activity_subject,priority:1" json:"subject_type"`
	SubjectID      uint64          `gorm:"not null;index:idx_activity_subject,priority:2" json:"subject_id"`
	Event          ActivityEvent   `gorm:"type:varchar(20);not null" json:"event"`
	CauserID       uint64          `gorm:"not null;index" json:"causer_id"`
	Changes        JSONMap         `gorm:"type:json" json:"changes"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`

	// Relations
	Causer User `gorm:"foreignKey:CauserID" json:"causer,omitempty"`
}

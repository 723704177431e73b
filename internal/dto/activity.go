package dto

import (
	"time"

	"github.com/hiyona/orgflow-api/internal/models"
)

// ActivityEntryDTO represents one audit-trail entry in API responses
type ActivityEntryDTO struct {
	ID          uint64                 `json:"id"`
	SubjectType models.ActivitySubject `json:"subject_type"`
	SubjectID   uint64                 `json:"subject_id"`
	Event       models.ActivityEvent   `json:"event"`
	CauserID    uint64                 `json:"causer_id"`
	Causer      *UserDTO               `json:"causer,omitempty"`
	Changes     models.JSONMap         `json:"changes"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ActivityListResponse represents a paginated slice of the audit trail
type ActivityListResponse struct {
	Entries    []ActivityEntryDTO `json:"entries"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// ToActivityEntryDTO converts an ActivityLogEntry model to ActivityEntryDTO
func ToActivityEntryDTO(entry models.ActivityLogEntry) ActivityEntryDTO {
	dto := ActivityEntryDTO{
		ID:          entry.ID,
		SubjectType: entry.SubjectType,
		SubjectID:   entry.SubjectID,
		Event:       entry.Event,
		CauserID:    entry.CauserID,
		Changes:     entry.Changes,
		CreatedAt:   entry.CreatedAt,
	}

	// Include causer if preloaded
	if entry.Causer.ID != 0 {
		causer := ToUserDTO(entry.Causer)
		dto.Causer = &causer
	}

	return dto
}

// ToActivityListResponse converts entries to ActivityListResponse
func ToActivityListResponse(entries []models.ActivityLogEntry, page, pageSize int, totalCount int64) ActivityListResponse {
	items := make([]ActivityEntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToActivityEntryDTO(entry)
	}

	return ActivityListResponse{
		Entries:    items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}

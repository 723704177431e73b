package utils

import (
	"github.com/google/uuid"
)

// GenerateInvitationToken returns an unguessable token for invitation links.
func GenerateInvitationToken() string {
	return uuid.NewString()
}

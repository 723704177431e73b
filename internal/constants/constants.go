package constants

// Session / context keys
const (
	SessionCookieName     = "orgflow_session"
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
)

// Password rules
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ActivityLogPageSize limits the number of entries shown on the activity feed.
const ActivityLogPageSize = 10

package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of the activity log. Rows are append only, there is no
// update or delete path.
type Entry struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	ActorUserID uuid.UUID              `db:"actor_user_id" json:"actor_user_id"`
	ActorEmail  string                 `db:"actor_email" json:"actor_email"`
	Action      string                 `db:"action" json:"action"`
	Details     map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
}

// ========================================
// ACTION TAGS
// ========================================
// Stable identifiers written to activity_logs.action. Renaming one breaks
// historical queries, add new tags instead.
const (
	ActionCraftsmanApproved = "CRAFTSMAN_APPROVED"
	ActionCraftsmanRejected = "CRAFTSMAN_REJECTED"

	ActionTeamMemberCreated = "TEAM_MEMBER_CREATED"
	ActionTeamMemberUpdated = "TEAM_MEMBER_UPDATED"
	ActionTeamMemberDeleted = "TEAM_MEMBER_DELETED"

	ActionUserStatusUpdated = "USER_STATUS_UPDATED"

	ActionArticlePublished   = "ARTICLE_PUBLISHED"
	ActionArticleUnpublished = "ARTICLE_UNPUBLISHED"
)

// ListFilter narrows the admin log listing.
type ListFilter struct {
	Page        int
	Limit       int
	Action      string
	ActorUserID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

func (f *ListFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

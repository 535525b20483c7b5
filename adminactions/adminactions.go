// Package adminactions keeps the audit trail of moderation decisions.
package adminactions

import (
	"context"
	"time"
)

// Known action types. The store accepts any string; these are the ones the
// admin endpoints know how to apply.
const (
	ActionBanUser       = "ban_user"
	ActionUnbanUser     = "unban_user"
	ActionHideBlog      = "hide_blog"
	ActionUnhideBlog    = "unhide_blog"
	ActionHideComment   = "hide_comment"
	ActionUnhideComment = "unhide_comment"
)

type Action struct {
	ID              int64     `json:"action_id"`
	AdminID         int64     `json:"admin_id"`
	TargetUserID    *int64    `json:"target_user_id,omitempty"`
	TargetBlogID    *int64    `json:"target_blog_id,omitempty"`
	TargetCommentID *int64    `json:"target_comment_id,omitempty"`
	ActionType      string    `json:"action_type"`
	Reason          string    `json:"reason,omitempty"`
	Timestamp       time.Time `json:"action_timestamp"`
}

type Repo interface {
	Create(ctx context.Context, action *Action) (*Action, error)
	ListByAdmin(ctx context.Context, adminID int64) ([]*Action, error)
}

package models

import "time"

const (
	PostStatusPending   = "pending"
	PostStatusPosted    = "posted"
	PostStatusCancelled = "cancelled"
	PostStatusFailed    = "failed"
)

const (
	ContentTypePainting = "painting"
	ContentTypeVideo    = "video"
)

// ScheduledPost is a single future post request. It is created pending and
// transitions to exactly one terminal state (posted, cancelled, or failed),
// after which it never changes again.
type ScheduledPost struct {
	ID            string    `json:"id"`
	ContentType   string    `json:"content_type"`
	ContentID     string    `json:"content_id"`
	MetadataPath  string    `json:"metadata_path"`
	Platform      string    `json:"platform"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	PostURL       string    `json:"post_url,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Due reports whether a pending post's scheduled time has passed.
func (p *ScheduledPost) Due(now time.Time) bool {
	return p.Status == PostStatusPending && !p.ScheduledTime.After(now)
}

// Terminal reports whether the post has reached a terminal status.
func (p *ScheduledPost) Terminal() bool {
	return p.Status == PostStatusPosted || p.Status == PostStatusCancelled || p.Status == PostStatusFailed
}

// Schedule is the on-disk envelope for the schedule file, the sole source
// of truth for pending future work.
type Schedule struct {
	ScheduledPosts []*ScheduledPost `json:"scheduled_posts"`
}

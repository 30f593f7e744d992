package transfer

// MastodonMedia is the media upload response from /api/v2/media (and the
// Pixelfed-compatible /api/v1/media).
type MastodonMedia struct {
	ID string `json:"id"`
}

// MastodonStatus is the status creation response from /api/v1/statuses.
type MastodonStatus struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	URI string `json:"uri"`
}

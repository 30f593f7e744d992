package models

// PostResult is the outcome of a single post attempt. Failures travel in
// the result rather than as errors so that callers can branch on them
// uniformly across configured, unconfigured, and stub platforms.
type PostResult struct {
	Success bool   `json:"success"`
	PostURL string `json:"post_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func PostFailure(msg string) PostResult {
	return PostResult{Success: false, Error: msg}
}

func PostSuccess(url string) PostResult {
	return PostResult{Success: true, PostURL: url}
}

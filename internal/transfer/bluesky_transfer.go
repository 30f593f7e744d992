package transfer

import "encoding/json"

// BlueskySession is the com.atproto.server.createSession response.
type BlueskySession struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
	Handle    string `json:"handle"`
}

// BlueskyBlob is the com.atproto.repo.uploadBlob response. The blob ref is
// kept opaque and echoed back verbatim in the post embed.
type BlueskyBlob struct {
	Blob json.RawMessage `json:"blob"`
}

// BlueskyRecord is the com.atproto.repo.createRecord response.
type BlueskyRecord struct {
	URI string `json:"uri"`
	Cid string `json:"cid"`
}

// BlueskyError is the error envelope AT protocol endpoints return.
type BlueskyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

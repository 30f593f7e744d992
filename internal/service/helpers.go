package service

import (
	"os"

	"github.com/h2non/filetype"
)

// detectContentType sniffs the MIME type from the file's magic bytes.
func detectContentType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}

// readImage loads an image file and resolves its content type in one step,
// since every platform upload needs both.
func readImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, detectContentType(data), nil
}

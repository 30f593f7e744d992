package utils

import (
	"regexp"
	"strings"

	"github.com/chrisrehm/theo/internal/models"
)

// DefaultMaxWords caps the description portion of a post so captions stay
// readable on the platforms with the tightest practical limits.
const DefaultMaxWords = 75

var (
	markdownRe   = regexp.MustCompile(`\*{1,2}(.+?)\*{1,2}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	hashtagRe    = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// FormatPostText builds the post caption used on every platform:
//
//	Painting Title
//
//	Short description (word-capped)
//
//	#art #artforsale #subject
//	artbychristopherrehm.com
func FormatPostText(p *models.Painting, website string, maxWords int) string {
	title := p.Title.Selected
	if title == "" {
		title = "Untitled"
	}

	shortDesc := TruncateDescription(p.Description, maxWords)
	hashtags := BuildHashtags(p.Subject)

	parts := []string{title}
	if shortDesc != "" {
		parts = append(parts, shortDesc)
	}
	parts = append(parts, hashtags+"\n"+website)

	return strings.Join(parts, "\n\n")
}

// TruncateDescription strips markdown bold/italic markers, collapses
// whitespace, and cuts the text to at most maxWords words.
func TruncateDescription(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	plain := markdownRe.ReplaceAllString(text, "$1")
	plain = strings.TrimSpace(whitespaceRe.ReplaceAllString(plain, " "))

	words := strings.Fields(plain)
	if len(words) <= maxWords {
		return plain
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// SubjectToHashtag converts a subject string to a hashtag:
// "Sea Beasties on Titan" -> "#seabeastiesontitan".
func SubjectToHashtag(subject string) string {
	tag := strings.ToLower(hashtagRe.ReplaceAllString(subject, ""))
	if tag == "" {
		return ""
	}
	return "#" + tag
}

// BuildHashtags builds the hashtag line: #art #artforsale #subject.
func BuildHashtags(subject string) string {
	tags := []string{"#art", "#artforsale"}
	if subjectTag := SubjectToHashtag(subject); subjectTag != "" && subjectTag != "#art" && subjectTag != "#artforsale" {
		tags = append(tags, subjectTag)
	}
	return strings.Join(tags, " ")
}

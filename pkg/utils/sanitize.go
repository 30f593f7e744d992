package utils

import "strings"

var filenameReplacer = strings.NewReplacer(
	" ", "_",
	":", "",
	";", "",
	"?", "",
	"!", "",
	"/", "_",
	"\\", "_",
	"*", "",
	`"`, "",
	"'", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFilename makes a title safe to use as a filename base.
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(strings.TrimSpace(name))
}

// TitleFromFilename turns a filename base back into a human-readable title:
// "sunset_lake" -> "Sunset Lake".
func TitleFromFilename(base string) string {
	words := strings.Fields(strings.ReplaceAll(base, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

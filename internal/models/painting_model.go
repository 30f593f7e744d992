package models

import (
	"encoding/json"
	"time"
)

// SocialMediaPlatforms is the full roster tracked in painting metadata,
// including platforms that are not yet implemented.
var SocialMediaPlatforms = []string{
	"mastodon",
	"instagram",
	"facebook",
	"bluesky",
	"linkedin",
	"tiktok",
	"youtube",
	"cara",
	"threads",
	"pixelfed",
	"tumblr",
	"flickr",
	"upscrolled",
}

// StringOrList tolerates both a single path string and a list of paths,
// since older metadata files store "files.big" as a plain string.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringOrList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = StringOrList(list)
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	switch len(s) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(s[0])
	default:
		return json.Marshal([]string(s))
	}
}

func (s StringOrList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

type FileSet struct {
	Big       StringOrList `json:"big"`
	Instagram StringOrList `json:"instagram"`
}

type Title struct {
	Selected   string   `json:"selected"`
	AllOptions []string `json:"all_options,omitempty"`
}

type Dimensions struct {
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Depth     *float64 `json:"depth"`
	Unit      string   `json:"unit"`
	Formatted string   `json:"formatted"`
}

// GalleryEntry tracks a one-time portfolio upload to a gallery site.
type GalleryEntry struct {
	LastUploaded *time.Time `json:"last_uploaded,omitempty"`
	URL          string     `json:"url,omitempty"`
}

// SocialEntry tracks repeatable promotional posts to a social platform.
// PostCount only increases, and only on a successful post; LastPosted is
// set if and only if PostCount > 0.
type SocialEntry struct {
	LastPosted *time.Time `json:"last_posted"`
	PostURL    string     `json:"post_url,omitempty"`
	PostCount  int        `json:"post_count"`
}

// Painting is the per-artwork metadata document, one JSON file per painting.
// It is the sole source of truth for that painting's upload and post history.
type Painting struct {
	FilenameBase     string                   `json:"filename_base"`
	Category         string                   `json:"category,omitempty"`
	CollectionFolder string                   `json:"collection_folder,omitempty"`
	Files            FileSet                  `json:"files"`
	Title            Title                    `json:"title"`
	Description      string                   `json:"description"`
	Dimensions       Dimensions               `json:"dimensions"`
	Substrate        string                   `json:"substrate,omitempty"`
	Medium           string                   `json:"medium,omitempty"`
	Subject          string                   `json:"subject,omitempty"`
	Style            string                   `json:"style,omitempty"`
	Collection       string                   `json:"collection,omitempty"`
	PriceEUR         float64                  `json:"price_eur,omitempty"`
	CreationDate     string                   `json:"creation_date,omitempty"`
	ProcessedDate    string                   `json:"processed_date,omitempty"`
	AnalyzedFrom     string                   `json:"analyzed_from,omitempty"`
	GallerySites     map[string]*GalleryEntry `json:"gallery_sites,omitempty"`
	SocialMedia      map[string]*SocialEntry  `json:"social_media,omitempty"`

	// Path is where this document lives on disk, set by the repository.
	Path string `json:"-"`
}

// DefaultSocialEntry returns the zero tracking entry for a platform.
func DefaultSocialEntry() *SocialEntry {
	return &SocialEntry{PostCount: 0}
}

// EmptySocialMedia returns a tracking map with every platform in the roster
// initialized to its default entry.
func EmptySocialMedia() map[string]*SocialEntry {
	m := make(map[string]*SocialEntry, len(SocialMediaPlatforms))
	for _, name := range SocialMediaPlatforms {
		m[name] = DefaultSocialEntry()
	}
	return m
}

// SocialEntryFor returns the tracking entry for a platform, creating the
// map and entry on first use.
func (p *Painting) SocialEntryFor(platform string) *SocialEntry {
	if p.SocialMedia == nil {
		p.SocialMedia = EmptySocialMedia()
	}
	entry, ok := p.SocialMedia[platform]
	if !ok {
		entry = DefaultSocialEntry()
		p.SocialMedia[platform] = entry
	}
	return entry
}

// GalleryEntryFor returns the tracking entry for a gallery site, creating
// the map and entry on first use.
func (p *Painting) GalleryEntryFor(site string) *GalleryEntry {
	if p.GallerySites == nil {
		p.GallerySites = make(map[string]*GalleryEntry)
	}
	entry, ok := p.GallerySites[site]
	if !ok {
		entry = &GalleryEntry{}
		p.GallerySites[site] = entry
	}
	return entry
}

// DisplayTitle returns the selected title, falling back to the filename base.
func (p *Painting) DisplayTitle() string {
	if p.Title.Selected != "" {
		return p.Title.Selected
	}
	return p.FilenameBase
}

// Folder returns the collection folder the painting's files live under,
// falling back to the category for older metadata.
func (p *Painting) Folder() string {
	if p.CollectionFolder != "" {
		return p.CollectionFolder
	}
	return p.Category
}

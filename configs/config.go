package config

import (
	"os"
	"path/filepath"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Mastodon struct {
	InstanceURL string
	AccessToken string
}

type Bluesky struct {
	Handle      string
	AppPassword string
}

type Flickr struct {
	APIKey      string
	APISecret   string
	OAuthToken  string
	OAuthSecret string
}

type Pixelfed struct {
	InstanceURL string
	AccessToken string
}

type Config struct {
	GeminiAPIKey           string
	PaintingsBigPath       string
	PaintingsInstagramPath string
	MetadataPath           string
	SchedulePath           string
	ProfilesDir            string
	Mastodon               Mastodon
	Bluesky                Bluesky
	Flickr                 Flickr
	Pixelfed               Pixelfed
	R2                     R2
	WebsiteURL             string
	ServeAddr              string
	APIToken               string
}

func LoadConfig() *Config {
	home, _ := os.UserHomeDir()
	metadataPath := expand(home, getEnv("METADATA_OUTPUT_PATH", "~/Pictures/processed-metadata"))

	return &Config{
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		PaintingsBigPath:       expand(home, getEnv("PAINTINGS_BIG_PATH", "~/Pictures/my-paintings-big")),
		PaintingsInstagramPath: expand(home, getEnv("PAINTINGS_INSTAGRAM_PATH", "~/Pictures/my-paintings-instagram")),
		MetadataPath:           metadataPath,
		SchedulePath:           expand(home, getEnv("SCHEDULE_PATH", filepath.Join(metadataPath, "schedule.json"))),
		ProfilesDir:            expand(home, getEnv("BROWSER_PROFILES_DIR", "~/.config/theo/profiles")),
		Mastodon: Mastodon{
			InstanceURL: getEnv("MASTODON_INSTANCE_URL", ""),
			AccessToken: getEnv("MASTODON_ACCESS_TOKEN", ""),
		},
		Bluesky: Bluesky{
			Handle:      getEnv("BLUESKY_HANDLE", ""),
			AppPassword: getEnv("BLUESKY_APP_PASSWORD", ""),
		},
		Flickr: Flickr{
			APIKey:      getEnv("FLICKR_API_KEY", ""),
			APISecret:   getEnv("FLICKR_API_SECRET", ""),
			OAuthToken:  getEnv("FLICKR_OAUTH_TOKEN", ""),
			OAuthSecret: getEnv("FLICKR_OAUTH_SECRET", ""),
		},
		Pixelfed: Pixelfed{
			InstanceURL: getEnv("PIXELFED_INSTANCE_URL", ""),
			AccessToken: getEnv("PIXELFED_ACCESS_TOKEN", ""),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		WebsiteURL: getEnv("WEBSITE_URL", "artbychristopherrehm.com"),
		ServeAddr:  getEnv("SERVE_ADDR", ":3000"),
		APIToken:   getEnv("API_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func expand(home, path string) string {
	if strings.HasPrefix(path, "~/") && home != "" {
		return filepath.Join(home, path[2:])
	}
	return path
}

package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/pkg/utils"
)

const (
	flickrUploadURL = "https://up.flickr.com/services/upload/"
	flickrRestURL   = "https://www.flickr.com/services/rest/"
)

// flickrService posts artwork to Flickr. Flickr still runs on OAuth 1.0a,
// so every request carries an HMAC-SHA1 signature computed over the sorted,
// percent-encoded parameter set. The upload endpoint answers in XML while
// the REST endpoints answer in JSON.
type flickrService struct {
	platformMeta
	apiKey      string
	apiSecret   string
	oauthToken  string
	oauthSecret string
	uploadURL   string
	restURL     string
	client      *http.Client
	userNSID    string
}

func NewFlickrService(cfg config.Config) SocialPlatform {
	return &flickrService{
		platformMeta: platformMeta{
			name:          "flickr",
			displayName:   "Flickr",
			maxTextLength: 63206,
		},
		apiKey:      cfg.Flickr.APIKey,
		apiSecret:   cfg.Flickr.APISecret,
		oauthToken:  cfg.Flickr.OAuthToken,
		oauthSecret: cfg.Flickr.OAuthSecret,
		uploadURL:   flickrUploadURL,
		restURL:     flickrRestURL,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *flickrService) IsConfigured() bool {
	return s.apiKey != "" && s.apiSecret != "" && s.oauthToken != "" && s.oauthSecret != ""
}

func (s *flickrService) VerifyCredentials(ctx context.Context) (bool, error) {
	if !s.IsConfigured() {
		return false, nil
	}
	data, err := s.callAPI(ctx, map[string]string{"method": "flickr.test.login"})
	if err != nil {
		return false, err
	}
	if data["stat"] != "ok" {
		return false, nil
	}
	if user, ok := data["user"].(map[string]any); ok {
		if id, ok := user["id"].(string); ok {
			s.userNSID = id
		}
	}
	return true, nil
}

// PostImage uploads a photo to Flickr. The alt text becomes the photo
// title and the caption becomes the description.
func (s *flickrService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	if !s.IsConfigured() {
		return notConfigured(s.displayName)
	}

	title := altText
	if title == "" {
		base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		title = utils.TitleFromFilename(base)
	}

	photoID, err := s.uploadPhoto(ctx, imagePath, title, text)
	if err != nil {
		slog.Info("flickr upload failed", "error", err)
		return models.PostFailure(err.Error())
	}
	if photoID == "" {
		return models.PostFailure("Upload succeeded but no photo ID returned")
	}

	return models.PostSuccess(s.photoURL(ctx, photoID))
}

// oauthParams returns fresh base OAuth 1.0a parameters with no signature.
func (s *flickrService) oauthParams() (map[string]string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return map[string]string{
		"oauth_consumer_key":     s.apiKey,
		"oauth_nonce":            hex.EncodeToString(nonce),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(time.Now().Unix(), 10),
		"oauth_token":            s.oauthToken,
		"oauth_version":          "1.0",
	}, nil
}

// signatureBaseString builds the OAuth 1.0a base string: the method, the
// request URL, and the sorted percent-encoded parameters, each segment
// percent-encoded again.
func signatureBaseString(method, rawurl string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	sort.Strings(pairs)
	return strings.ToUpper(method) + "&" + percentEncode(rawurl) + "&" + percentEncode(strings.Join(pairs, "&"))
}

// percentEncode applies RFC 3986 encoding, which OAuth 1.0a requires
// instead of the form encoding url.Values produces.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func (s *flickrService) sign(method, rawurl string, params map[string]string) string {
	base := signatureBaseString(method, rawurl, params)
	key := percentEncode(s.apiSecret) + "&" + percentEncode(s.oauthSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// callAPI calls a Flickr REST method via GET and returns the parsed JSON.
func (s *flickrService) callAPI(ctx context.Context, params map[string]string) (map[string]any, error) {
	all, err := s.oauthParams()
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		all[k] = v
	}
	all["format"] = "json"
	all["nojsoncallback"] = "1"
	all["oauth_signature"] = s.sign(http.MethodGet, s.restURL, all)

	values := url.Values{}
	for k, v := range all {
		values.Set(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.restURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}
	return data, nil
}

type flickrUploadResponse struct {
	XMLName xml.Name `xml:"rsp"`
	Stat    string   `xml:"stat,attr"`
	PhotoID string   `xml:"photoid"`
	Err     struct {
		Msg string `xml:"msg,attr"`
	} `xml:"err"`
}

// uploadPhoto sends the photo to the upload endpoint. All OAuth params,
// signature included, travel in the multipart body rather than in an
// Authorization header.
func (s *flickrService) uploadPhoto(ctx context.Context, imagePath, title, description string) (string, error) {
	data, contentType, err := readImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	all, err := s.oauthParams()
	if err != nil {
		return "", err
	}
	all["title"] = title
	all["description"] = description
	all["is_public"] = "1"
	all["safety_level"] = "1"
	all["content_type"] = "1"
	all["oauth_signature"] = s.sign(http.MethodPost, s.uploadURL, all)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range all {
		if err := writer.WriteField(k, v); err != nil {
			return "", err
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filepath.Base(imagePath)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed flickrUploadResponse
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parsing upload response: %w", err)
	}
	if parsed.Stat != "ok" {
		msg := parsed.Err.Msg
		if msg == "" {
			msg = "Unknown error"
		}
		return "", fmt.Errorf("flickr upload failed: %s", msg)
	}
	return parsed.PhotoID, nil
}

// photoURL builds the canonical photo page URL, fetching the user NSID via
// flickr.test.login if it has not been cached yet.
func (s *flickrService) photoURL(ctx context.Context, photoID string) string {
	if s.userNSID == "" {
		data, err := s.callAPI(ctx, map[string]string{"method": "flickr.test.login"})
		if err == nil {
			if user, ok := data["user"].(map[string]any); ok {
				if id, ok := user["id"].(string); ok {
					s.userNSID = id
				}
			}
		}
	}
	if s.userNSID == "" {
		return "https://www.flickr.com/photos/" + photoID
	}
	return fmt.Sprintf("https://www.flickr.com/photos/%s/%s", s.userNSID, photoID)
}

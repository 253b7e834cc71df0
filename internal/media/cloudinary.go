package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/clubhub/clubhub/internal/config"
)

// Cloudinary uploads files with the signed upload API.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	baseURL   string

	client *http.Client
	now    func() time.Time
}

// NewCloudinary returns a store for the account in cfg.
func NewCloudinary(cfg config.MediaConfig) *Cloudinary {
	return &Cloudinary{
		cloudName: cfg.CloudinaryCloudName,
		apiKey:    cfg.CloudinaryAPIKey,
		apiSecret: cfg.CloudinaryAPISecret,
		folder:    cfg.CloudinaryFolder,
		baseURL:   cfg.CloudinaryBaseURL,
		client:    &http.Client{Timeout: 2 * time.Minute},
		now:       time.Now,
	}
}

type uploadResponse struct {
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type"`
}

// Store uploads up. Documents go up as raw resources so they are served
// unmodified; everything else lets the backend pick.
func (c *Cloudinary) Store(ctx context.Context, up Upload) (Stored, error) {
	resourceType := "auto"
	if DetectKind(up.ContentType, "") == KindDocument {
		resourceType = "raw"
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"signature": signParams(params, c.apiSecret),
	}
	for k, v := range params {
		fields[k] = v
	}

	body, contentType, err := multipartBody(fields, up)
	if err != nil {
		return Stored{}, err
	}

	var resp uploadResponse
	err = requests.URL(c.baseURL).
		Path(fmt.Sprintf("/v1_1/%s/%s/upload", c.cloudName, resourceType)).
		Client(c.client).
		BodyBytes(body).
		ContentType(contentType).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return Stored{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.SecureURL == "" {
		return Stored{}, fmt.Errorf("cloudinary upload: response without secure_url")
	}
	return Stored{URL: resp.SecureURL, Kind: DetectKind(up.ContentType, resp.ResourceType)}, nil
}

// signParams computes the upload signature: the sorted key=value pairs
// joined with '&', followed by the API secret, hashed with SHA-1.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func multipartBody(fields map[string]string, up Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.Filename))
	if up.ContentType != "" {
		h.Set("Content-Type", up.ContentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Package storage uploads resume files to a Cloudinary-style HTTP storage
// provider. Without credentials it runs in demo mode and fabricates stable
// URLs so the rest of the pipeline keeps working.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DemoCloudName marks an unconfigured provider.
const DemoCloudName = "demo-cloud"

// DefaultTimeout bounds a single upload request.
const DefaultTimeout = 30 * time.Second

// File is the payload to upload.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult reports the outcome of a single upload. Failures are carried
// in Error rather than returned, so one bad file never aborts a batch.
type UploadResult struct {
	Success  bool
	URL      string
	PublicID string
	Error    string
}

// Uploader posts files to the provider's unsigned upload endpoint.
type Uploader struct {
	cloudName    string
	uploadPreset string
	baseURL      string
	httpClient   *http.Client
	now          func() time.Time
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithBaseURL overrides the provider endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(u *Uploader) { u.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

// NewUploader creates an Uploader. An empty or demo cloud name selects demo
// mode.
func NewUploader(cloudName, uploadPreset string, opts ...Option) *Uploader {
	if cloudName == "" {
		cloudName = DemoCloudName
	}
	if uploadPreset == "" {
		uploadPreset = "hr360_preset"
	}
	u := &Uploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		baseURL:      "https://api.cloudinary.com/v1_1",
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// DemoMode reports whether uploads are simulated.
func (u *Uploader) DemoMode() bool {
	return u.cloudName == DemoCloudName
}

// Upload stores a file under folder and returns its public URL. In demo mode
// the URL is fabricated deterministically from folder and filename. A failed
// upload is reported in the result, not as an error; there is no retry.
func (u *Uploader) Upload(ctx context.Context, file File, folder string) UploadResult {
	if folder == "" {
		folder = "hr360"
	}
	if u.DemoMode() {
		return UploadResult{
			Success:  true,
			URL:      fmt.Sprintf("https://demo-storage.com/%s/%s", folder, file.Filename),
			PublicID: fmt.Sprintf("demo_%d_%s", u.now().UnixMilli(), file.Filename),
		}
	}

	result, err := u.post(ctx, file, folder)
	if err != nil {
		return UploadResult{Success: false, Error: err.Error()}
	}
	return result
}

func (u *Uploader) post(ctx context.Context, file File, folder string) (UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("folder", folder); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/auto/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return UploadResult{}, fmt.Errorf("upload failed: %s", resp.Status)
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return UploadResult{}, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return UploadResult{Success: true, URL: payload.SecureURL, PublicID: payload.PublicID}, nil
}

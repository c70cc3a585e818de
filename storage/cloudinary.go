package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional)

func InitializeMediaStorage() {}

type UploadResult struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// TransformOptions parameterize a deterministic delivery URL.
type TransformOptions struct {
	Width   int
	Height  int
	Quality string // e.g. "auto", "80"
	Crop    string // e.g. "fill", "fit"
}

// UploadBase64 performs a signed upload of a data URI (or bare base64
// payload) and returns the hosted asset. resourceType is "image" or "video".
func UploadBase64(base64Src, publicID, resourceType string) (*UploadResult, error) {
	if base64Src == "" {
		return nil, fmt.Errorf("empty media payload")
	}
	if resourceType != "video" {
		resourceType = "image"
	}

	payload := base64Src
	if i := strings.Index(base64Src, ","); i != -1 {
		payload = base64Src[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary is not configured")
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resourceType + "/upload"

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	mime := "image/jpeg"
	if resourceType == "video" {
		mime = "video/mp4"
	}

	form := url.Values{}
	form.Add("file", "data:"+mime+";base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	form.Add("signature", signParams(map[string]string{
		"public_id": finalPublicID,
		"timestamp": timestamp,
	}, apiSecret))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", res.StatusCode, string(body))
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.URL == "" {
		return nil, fmt.Errorf("cloudinary upload returned no url")
	}
	return &result, nil
}

// DestroyMedia deletes an uploaded asset by its public id. Best effort
// callers may ignore the error after logging it.
func DestroyMedia(publicID, resourceType string) error {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("cloudinary is not configured")
	}
	if resourceType != "video" {
		resourceType = "image"
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resourceType + "/destroy"
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signParams(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, apiSecret))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cloudinary destroy failed with status %d: %s", res.StatusCode, string(body))
	}
	return nil
}

// DeliveryURL builds a transformation URL for a stored asset without any
// remote call. An empty options struct yields the original asset.
func DeliveryURL(publicID, resourceType string, opts TransformOptions) string {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	if cloudName == "" || publicID == "" {
		return ""
	}
	if resourceType != "video" {
		resourceType = "image"
	}

	var parts []string
	if opts.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", opts.Width))
	}
	if opts.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", opts.Height))
	}
	if opts.Crop != "" {
		parts = append(parts, "c_"+opts.Crop)
	}
	if opts.Quality != "" {
		parts = append(parts, "q_"+opts.Quality)
	}

	base := "https://res.cloudinary.com/" + cloudName + "/" + resourceType + "/upload/"
	if len(parts) > 0 {
		return base + strings.Join(parts, ",") + "/" + publicID
	}
	return base + publicID
}

// signParams produces the SHA1 signature Cloudinary expects: parameters
// sorted by key, joined with &, secret appended.
func signParams(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return fmt.Sprintf("%x", sha1.Sum([]byte(strings.Join(pairs, "&")+apiSecret)))
}

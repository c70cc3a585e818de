package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

// IdentityClient talks to the hosted identity provider (a GoTrue-compatible
// auth API). Account management goes through the admin REST endpoints with
// the service key; session tokens are verified against the provider's
// published JWKS, the same way third-party identity tokens are checked.
type IdentityClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

var Identity *IdentityClient

func InitializeIdentity() {
	baseURL := os.Getenv("AUTH_PROVIDER_URL")
	if baseURL == "" {
		log.Println("AUTH_PROVIDER_URL not set, identity provider disabled (development mode)")
	}
	Identity = NewIdentityClient(baseURL, os.Getenv("AUTH_SERVICE_KEY"))
}

func NewIdentityClient(baseURL, serviceKey string) *IdentityClient {
	if baseURL != "" && !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return &IdentityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *IdentityClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// ProviderUser is the subset of the provider's account record the server
// cares about.
type ProviderUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
	Name           string `json:"name"`
}

type providerUserRes struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt string         `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

func (r *providerUserRes) toProviderUser() *ProviderUser {
	u := &ProviderUser{
		ID:             r.ID,
		Email:          r.Email,
		EmailConfirmed: r.EmailConfirmedAt != "",
	}
	if name, ok := r.UserMetadata["name"].(string); ok {
		u.Name = name
	}
	return u
}

func (c *IdentityClient) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+"/auth/v1"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// CreateUser provisions a provider account with a confirmed email.
func (c *IdentityClient) CreateUser(email, password, name string) (*ProviderUser, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"name": name},
	}
	res, err := c.makeRequest("POST", "/admin/users", body)
	if err != nil {
		return nil, err
	}
	var pu providerUserRes
	if err := json.Unmarshal(res, &pu); err != nil {
		return nil, err
	}
	return pu.toProviderUser(), nil
}

func (c *IdentityClient) GetUserByID(id string) (*ProviderUser, error) {
	res, err := c.makeRequest("GET", "/admin/users/"+id, nil)
	if err != nil {
		return nil, err
	}
	var pu providerUserRes
	if err := json.Unmarshal(res, &pu); err != nil {
		return nil, err
	}
	return pu.toProviderUser(), nil
}

func (c *IdentityClient) UpdateUserByID(id string, patch map[string]any) error {
	_, err := c.makeRequest("PUT", "/admin/users/"+id, patch)
	return err
}

// DeleteUser removes a provider account. Used as the compensating call when
// a multi-step creation fails after the account already exists.
func (c *IdentityClient) DeleteUser(id string) error {
	_, err := c.makeRequest("DELETE", "/admin/users/"+id, nil)
	return err
}

type passwordGrantRes struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SignInWithPassword exchanges credentials for a provider access token.
func (c *IdentityClient) SignInWithPassword(email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := c.makeRequest("POST", "/token?grant_type=password", body)
	if err != nil {
		return "", err
	}
	var grant passwordGrantRes
	if err := json.Unmarshal(res, &grant); err != nil {
		return "", err
	}
	if grant.AccessToken == "" {
		return "", fmt.Errorf("identity provider returned no access token")
	}
	return grant.AccessToken, nil
}

// GetUser resolves an opaque session token to the provider subject. The
// token is a provider-signed JWT, checked against the provider's JWKS on
// every call; nothing is cached.
func (c *IdentityClient) GetUser(accessToken string) (*ProviderUser, error) {
	res, err := c.httpClient.Get(c.baseURL + "/auth/v1/.well-known/jwks.json")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	jwks, err := keyfunc.NewJSON(body)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(accessToken, jwks.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	sub := fmt.Sprint(claims["sub"])
	if sub == "" || sub == "<nil>" {
		return nil, fmt.Errorf("session token has no subject")
	}

	pu := &ProviderUser{ID: sub}
	if email, ok := claims["email"].(string); ok {
		pu.Email = email
	}
	return pu, nil
}

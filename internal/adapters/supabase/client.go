package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/odonto-agenda/auth-api/internal/domain"
)

// Client is the managed identity provider as the auth flows see it.
type Client interface {
	CreateIdentity(ctx context.Context, email, password, role string) (*domain.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error)
}

// ProviderError carries the status and message returned by the provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
}

type httpClient struct {
	baseURL    string
	serviceKey string
	anonKey    string
	client     *http.Client
	deleteWait time.Duration
}

func NewHTTPClient(baseURL, serviceKey, anonKey string, timeout time.Duration) Client {
	if anonKey == "" {
		anonKey = serviceKey
	}
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		anonKey:    anonKey,
		client:     &http.Client{Timeout: timeout},
		deleteWait: 3 * time.Second,
	}
}

type userResponse struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *string        `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

func (u userResponse) identity() *domain.Identity {
	return &domain.Identity{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmedAt != nil && *u.EmailConfirmedAt != "",
		Metadata:       u.UserMetadata,
	}
}

func (c *httpClient) CreateIdentity(ctx context.Context, email, password, role string) (*domain.Identity, error) {
	payload := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"tipo": role},
	}
	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", c.serviceKey, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, errors.New("supabase: created user without id")
	}
	return resp.identity(), nil
}

// DeleteIdentity retries briefly since deleting is idempotent. A missing user counts as deleted.
func (c *httpClient) DeleteIdentity(ctx context.Context, id string) error {
	op := func() error {
		err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), c.serviceKey, nil, nil)
		var perr *ProviderError
		if errors.As(err, &perr) {
			if perr.Status == http.StatusNotFound {
				return nil
			}
			if perr.Status < 500 {
				return backoff.Permanent(err)
			}
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = c.deleteWait
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

func (c *httpClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp struct {
		AccessToken string       `json:"access_token"`
		User        userResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, payload, &resp); err != nil {
		return nil, err
	}
	if resp.User.ID == "" {
		return nil, errors.New("supabase: sign-in response without user id")
	}
	return resp.User.identity(), nil
}

func (c *httpClient) do(ctx context.Context, method, path, key string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("supabase: decode response: %w", err)
		}
	}
	return nil
}

func decodeError(res *http.Response) error {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	msg := body.Msg
	for _, candidate := range []string{body.Message, body.ErrorDescription, body.Error} {
		if msg == "" {
			msg = candidate
		}
	}
	if msg == "" {
		msg = http.StatusText(res.StatusCode)
	}
	return &ProviderError{Status: res.StatusCode, Message: msg}
}

// Package admin provides a client for administrative API endpoints whose request and
// response payloads are protected with lockbox encryption. The payloads carry secret
// keys and policy documents, so they travel sealed end-to-end regardless of the
// transport security of the connection itself.
package admin

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codahale/lockbox"
	"github.com/kelseyhightower/envconfig"
)

// timeout is the maximum amount of time to wait for an admin call.
const timeout = 5 * time.Second

// Config holds the connection settings for an admin API endpoint.
type Config struct {
	Host      string `envconfig:"LOCKBOX_ADMIN_HOST" required:"true"`
	AccessKey string `envconfig:"LOCKBOX_ADMIN_ACCESS_KEY"`
	SecretKey string `envconfig:"LOCKBOX_ADMIN_SECRET_KEY" required:"true"`
}

// ConfigFromEnv reads a Config from the LOCKBOX_ADMIN_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Client calls administrative endpoints, sealing request bodies and opening response
// bodies with the configured secret key.
type Client struct {
	host      string
	accessKey string
	secret    []byte
	httpc     *http.Client
	rand      io.Reader
}

// NewClient returns a Client for the given configuration.
func NewClient(cfg Config) *Client {
	host := cfg.Host
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	return &Client{
		host:      strings.TrimSuffix(host, "/"),
		accessKey: cfg.AccessKey,
		secret:    []byte(cfg.SecretKey),
		httpc:     &http.Client{Timeout: timeout},
		rand:      rand.Reader,
	}
}

// ServiceAccountReq describes a service account to be created. Empty keys ask the
// server to generate credentials.
type ServiceAccountReq struct {
	AccessKey string          `json:"accessKey,omitempty"`
	SecretKey string          `json:"secretKey,omitempty"`
	Policy    json.RawMessage `json:"policy,omitempty"`
}

// Credentials are the keys of a newly created service account.
type Credentials struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

// UserInfo describes a user known to the admin API.
type UserInfo struct {
	PolicyName string `json:"policyName,omitempty"`
	Status     string `json:"status"`
}

// AddServiceAccount creates a new service account. The request carries a secret key and
// a policy document and the response carries the new credentials, so both travel sealed.
func (c *Client) AddServiceAccount(ctx context.Context, req ServiceAccountReq) (Credentials, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Credentials{}, err
	}

	resp, err := c.call(ctx, http.MethodPost, "/v1/service-accounts", body)
	if err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(resp, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decoding credentials: %w", err)
	}

	return creds, nil
}

// ListUsers returns the users known to the admin API, keyed by access key. The response
// enumerates accounts and their policies, so it travels sealed.
func (c *Client) ListUsers(ctx context.Context) (map[string]UserInfo, error) {
	resp, err := c.call(ctx, http.MethodGet, "/v1/users", nil)
	if err != nil {
		return nil, err
	}

	users := map[string]UserInfo{}
	if err := json.Unmarshal(resp, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	return users, nil
}

// call performs one admin request. A non-nil body is sealed before it is sent; the
// response body is always expected to be sealed.
func (c *Client) call(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var src io.Reader

	if body != nil {
		sealed, err := lockbox.Encrypt(c.rand, c.secret, body)
		if err != nil {
			return nil, err
		}

		src = bytes.NewReader(sealed)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, src)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	if c.accessKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}

	return lockbox.Decrypt(resp.Body, c.secret)
}

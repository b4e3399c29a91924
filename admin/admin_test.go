package admin

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/codahale/lockbox"
	"github.com/google/go-cmp/cmp"
)

func TestAddServiceAccount(t *testing.T) {
	t.Parallel()

	secret := []byte("secret123")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/service-accounts" {
			http.NotFound(w, r)

			return
		}

		if got := r.Header.Get("Authorization"); got != "Bearer admin" {
			http.Error(w, "access denied", http.StatusForbidden)

			return
		}

		// The request body arrives sealed.
		body, err := lockbox.Decrypt(r.Body, secret)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		var req ServiceAccountReq
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		resp, err := json.Marshal(Credentials{AccessKey: req.AccessKey, SecretKey: "generated-secret"})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		// The response carries credentials, so it leaves sealed.
		sealed, err := lockbox.Encrypt(rand.Reader, secret, resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		_, _ = w.Write(sealed)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, AccessKey: "admin", SecretKey: string(secret)})

	creds, err := c.AddServiceAccount(context.Background(), ServiceAccountReq{
		AccessKey: "svc-reports",
		Policy:    json.RawMessage(`{"Statement":[{"Action":"admin:*"}]}`),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := Credentials{AccessKey: "svc-reports", SecretKey: "generated-secret"}
	if diff := cmp.Diff(want, creds); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	secret := []byte("secret123")

	users := map[string]UserInfo{
		"svc-reports": {PolicyName: "readonly", Status: "enabled"},
		"svc-ingest":  {Status: "disabled"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/users" {
			http.NotFound(w, r)

			return
		}

		resp, err := json.Marshal(users)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		sealed, err := lockbox.Encrypt(rand.Reader, secret, resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		_, _ = w.Write(sealed)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, SecretKey: string(secret)})

	got, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(users, got); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, SecretKey: "secret123"})

	_, err := c.ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "access denied") {
		t.Errorf("unhelpful error: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, SecretKey: "secret123"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListUsers(ctx); err == nil {
		t.Error("expected an error from a canceled context")
	}
}

func TestConfigFromEnv(t *testing.T) {
	if err := os.Setenv("LOCKBOX_ADMIN_HOST", "admin.example.com"); err != nil {
		t.Fatal(err)
	}

	if err := os.Setenv("LOCKBOX_ADMIN_SECRET_KEY", "secret123"); err != nil {
		t.Fatal(err)
	}

	defer func() {
		_ = os.Unsetenv("LOCKBOX_ADMIN_HOST")
		_ = os.Unsetenv("LOCKBOX_ADMIN_SECRET_KEY")
	}()

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}

	want := Config{Host: "admin.example.com", SecretKey: "secret123"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

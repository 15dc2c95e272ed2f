package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeVerify(t *testing.T, w *httptest.ResponseRecorder) VerifySecretResponse {
	t.Helper()
	var resp VerifySecretResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestVerifySecret(t *testing.T) {
	router := newTestRouter(&fakeStore{}, &fakeGate{secret: testSecret, issued: "session-token"})

	t.Run("valid", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/verify-secret", `{"blog_secret":"letmein"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decodeVerify(t, w)
		if !resp.Valid {
			t.Error("expected valid=true")
		}
		if resp.Token != "session-token" {
			t.Errorf("expected issued token, got %q", resp.Token)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/verify-secret", `{"blog_secret":"nope"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decodeVerify(t, w)
		if resp.Valid {
			t.Error("expected valid=false")
		}
		if resp.Token != "" {
			t.Errorf("no token on failure, got %q", resp.Token)
		}
	})

	t.Run("empty", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/verify-secret", `{}`)
		if resp := decodeVerify(t, w); resp.Valid {
			t.Error("expected valid=false for missing secret")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/verify-secret", `{`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if resp := decodeVerify(t, w); resp.Valid {
			t.Error("expected valid=false for malformed body")
		}
	})
}

func TestVerifySecretNoTokenConfigured(t *testing.T) {
	router := newTestRouter(&fakeStore{}, &fakeGate{secret: testSecret})

	w := doJSON(t, router, http.MethodPost, "/api/verify-secret", `{"blog_secret":"letmein"}`)
	resp := decodeVerify(t, w)
	if !resp.Valid {
		t.Error("expected valid=true")
	}
	if resp.Token != "" {
		t.Errorf("expected no token when signing is unconfigured, got %q", resp.Token)
	}
}

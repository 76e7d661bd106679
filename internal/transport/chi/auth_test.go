package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

type stubValidator struct {
	tokens map[string]identity.Identity
}

func (v stubValidator) Validate(token string) (identity.Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return identity.Identity{}, errors.New("unknown token: " + domain.ErrUnauthenticated.Error())
	}
	return id, nil
}

// identityEcho writes the subject resolved by the middleware.
func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(id.ID()))
	})
}

func newValidator() stubValidator {
	return stubValidator{tokens: map[string]identity.Identity{
		"secret": identity.New("alice", []string{identity.RoleManager}, nil),
	}}
}

func TestIdentityMiddleware_NoHeader_Anonymous(t *testing.T) {
	handler := IdentityMiddleware(newValidator())(identityEcho())

	req := httptest.NewRequest("GET", "/api/awards", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("no header: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "" {
		t.Errorf("expected anonymous caller, got %q", rr.Body.String())
	}
}

func TestIdentityMiddleware_NilValidator_Anonymous(t *testing.T) {
	handler := IdentityMiddleware(nil)(identityEcho())

	req := httptest.NewRequest("GET", "/api/awards", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "" {
		t.Errorf("nil validator: got %d %q", rr.Code, rr.Body.String())
	}
}

func TestIdentityMiddleware_BasicScheme_401(t *testing.T) {
	handler := IdentityMiddleware(newValidator())(identityEcho())

	req := httptest.NewRequest("GET", "/api/awards", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeUnauthorized)
	}
}

func TestIdentityMiddleware_InvalidToken_401(t *testing.T) {
	handler := IdentityMiddleware(newValidator())(identityEcho())

	req := httptest.NewRequest("GET", "/api/awards", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestIdentityMiddleware_ValidToken(t *testing.T) {
	handler := IdentityMiddleware(newValidator())(identityEcho())

	for _, header := range []string{"Bearer secret", "bearer secret", "Bearer  secret "} {
		req := httptest.NewRequest("GET", "/api/awards", http.NoBody)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%q: got %d, want %d", header, rr.Code, http.StatusOK)
		}
		if rr.Body.String() != "alice" {
			t.Errorf("%q: subject got %q, want alice", header, rr.Body.String())
		}
	}
}

func TestIdentityFromContext_Default(t *testing.T) {
	req := httptest.NewRequest("GET", "/", http.NoBody)
	if !IdentityFromContext(req.Context()).IsAnonymous() {
		t.Error("empty context should yield the anonymous identity")
	}
}

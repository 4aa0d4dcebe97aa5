package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSkillID = "amzn1.ask.skill.color-magic"

func envelopeJSON(appID, timestamp string) string {
	return `{"version":"1.0","context":{"System":{"application":{"applicationId":"` + appID +
		`"}}},"request":{"type":"LaunchRequest","timestamp":"` + timestamp + `"}}`
}

func TestVerifySkill(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-30 * time.Second).Format(time.RFC3339)
	stale := now.Add(-10 * time.Minute).Format(time.RFC3339)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid", body: envelopeJSON(testSkillID, fresh), wantCode: http.StatusOK},
		{name: "session application id", body: `{"session":{"application":{"applicationId":"` + testSkillID + `"}},"request":{"timestamp":"` + fresh + `"}}`, wantCode: http.StatusOK},
		{name: "other skill", body: envelopeJSON("amzn1.ask.skill.other", fresh), wantCode: http.StatusBadRequest},
		{name: "stale", body: envelopeJSON(testSkillID, stale), wantCode: http.StatusBadRequest},
		{name: "bad timestamp", body: envelopeJSON(testSkillID, "yesterday"), wantCode: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				seen = string(b)
				w.WriteHeader(http.StatusOK)
			})
			h := verifySkill(testSkillID, 150*time.Second, func() time.Time { return now })(next)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/alexa", strings.NewReader(tt.body)))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && seen != tt.body {
				t.Errorf("next handler saw body %q, want original", seen)
			}
		})
	}
}

func TestVerifySkillDisabled(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { called = true })

	w := httptest.NewRecorder()
	VerifySkill("", time.Minute)(next).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/alexa", strings.NewReader("not json")))

	if !called {
		t.Error("disabled verification blocked the request")
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://developer.amazon.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/alexa", nil)
	req.Header.Set("Origin", "https://developer.amazon.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://developer.amazon.com" {
		t.Errorf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/alexa", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin allowed: %q", got)
	}
}

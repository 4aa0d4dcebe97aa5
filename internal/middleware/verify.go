package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxVerifyBytes bounds how much of the body is buffered for verification.
const maxVerifyBytes = 1 << 20

// envelopeHeader is the part of a request envelope needed for verification.
type envelopeHeader struct {
	Session *struct {
		Application struct {
			ApplicationID string `json:"applicationId"`
		} `json:"application"`
	} `json:"session"`
	Context struct {
		System struct {
			Application struct {
				ApplicationID string `json:"applicationId"`
			} `json:"application"`
		} `json:"System"`
	} `json:"context"`
	Request struct {
		Timestamp string `json:"timestamp"`
	} `json:"request"`
}

func (e envelopeHeader) applicationID() string {
	if id := e.Context.System.Application.ApplicationID; id != "" {
		return id
	}
	if e.Session != nil {
		return e.Session.Application.ApplicationID
	}
	return ""
}

// VerifySkill rejects skill requests addressed to another application id or
// whose timestamp is more than maxAge away from now. An empty skillID
// disables the check.
func VerifySkill(skillID string, maxAge time.Duration) func(http.Handler) http.Handler {
	return verifySkill(skillID, maxAge, time.Now)
}

func verifySkill(skillID string, maxAge time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if skillID == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxVerifyBytes+1))
			if err != nil {
				http.Error(w, `{"error":"failed to read request"}`, http.StatusBadRequest)
				return
			}
			_ = r.Body.Close()
			if len(body) > maxVerifyBytes {
				http.Error(w, `{"error":"request too large"}`, http.StatusRequestEntityTooLarge)
				return
			}

			var hdr envelopeHeader
			if err := json.Unmarshal(body, &hdr); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}

			if got := hdr.applicationID(); got != skillID {
				slog.Warn("Rejected request for unknown skill", "application_id", got)
				http.Error(w, `{"error":"unknown application id"}`, http.StatusBadRequest)
				return
			}

			if maxAge > 0 {
				ts, err := time.Parse(time.RFC3339, hdr.Request.Timestamp)
				if err != nil {
					http.Error(w, `{"error":"invalid request timestamp"}`, http.StatusBadRequest)
					return
				}
				if skew := now().Sub(ts).Abs(); skew > maxAge {
					slog.Warn("Rejected stale skill request", "timestamp", hdr.Request.Timestamp, "skew", skew)
					http.Error(w, `{"error":"request timestamp out of range"}`, http.StatusBadRequest)
					return
				}
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/errorstate"
	"github.com/ashureev/color-magic/internal/imagegen"
	"github.com/ashureev/color-magic/internal/skill"
)

const testUserID = "amzn1.ask.account.TEST"

func newEnvelope(requestType, locale string, withAPL bool) *alexa.RequestEnvelope {
	env := &alexa.RequestEnvelope{
		Version: "1.0",
		Session: &alexa.Session{New: requestType == alexa.RequestTypeLaunch, SessionID: "amzn1.echo-api.session.1"},
		Request: alexa.Request{Type: requestType, RequestID: "req-1", Locale: locale},
	}
	env.Context.System.User.UserID = testUserID
	if withAPL {
		env.Context.System.Device.SupportedInterfaces = map[string]json.RawMessage{
			alexa.InterfaceAPL: json.RawMessage(`{"runtime":{"maxVersion":"2023.3"}}`),
		}
	}
	return env
}

func intentEnvelope(name, locale string, slots map[string]string) *alexa.RequestEnvelope {
	env := newEnvelope(alexa.RequestTypeIntent, locale, true)
	intent := &alexa.Intent{Name: name, Slots: map[string]alexa.Slot{}}
	for k, v := range slots {
		intent.Slots[k] = alexa.Slot{Name: k, Value: v}
	}
	env.Request.Intent = intent
	return env
}

func newInput(env *alexa.RequestEnvelope) *skill.Input {
	return skill.NewInput(context.Background(), env)
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	getErr   error
	saveErr  error
	gets     int
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*domain.Session)}
}

func (m *memSessions) GetOrCreate(_ context.Context, env *alexa.RequestEnvelope) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[env.UserID()]
	if !ok {
		s = &domain.Session{
			ID:                "sess-" + env.UserID(),
			UserID:            env.UserID(),
			Language:          domain.LanguageFromLocale(env.Locale()),
			ConversationState: domain.StateAwaitingDescription,
		}
		m.sessions[env.UserID()] = s
	}
	clone := *s
	clone.ImageHistory = append([]domain.ImageRef(nil), s.ImageHistory...)
	return &clone, nil
}

func (m *memSessions) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := *s
	clone.ImageHistory = append([]domain.ImageRef(nil), s.ImageHistory...)
	m.sessions[s.UserID] = &clone
	return nil
}

func (m *memSessions) StartOver(ctx context.Context, s *domain.Session) error {
	s.StartOver()
	return m.Save(ctx, s)
}

func (m *memSessions) seed(s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
}

func (m *memSessions) stored(t *testing.T, userID string) *domain.Session {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		t.Fatalf("no session stored for %s", userID)
	}
	return s
}

// recordingErrors wraps the real error state and records what it saw.
type recordingErrors struct {
	inner      *errorstate.Handler
	cleared    int
	categories []domain.OperationCategory
	errs       []error
}

func newRecordingErrors() *recordingErrors {
	return &recordingErrors{inner: errorstate.New(2)}
}

func (r *recordingErrors) ClearRetryState(in *skill.Input) {
	r.cleared++
	r.inner.ClearRetryState(in)
}

func (r *recordingErrors) HandleOperationFailure(in *skill.Input, category domain.OperationCategory, err error) *alexa.Response {
	r.categories = append(r.categories, category)
	r.errs = append(r.errs, err)
	return r.inner.HandleOperationFailure(in, category, err)
}

// fakeImages is a scripted Generator.
type fakeImages struct {
	err      error
	requests []imagegen.Request
}

func (f *fakeImages) Generate(_ context.Context, req imagegen.Request) (domain.ImageRef, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return domain.ImageRef{}, f.err
	}
	id := "img-" + string(rune('a'+len(f.requests)-1))
	return domain.ImageRef{ID: id, Prompt: req.Prompt, URL: "https://images.example/" + id + ".png"}, nil
}

var errStoreDown = errors.New("sqlite: disk I/O error")

func history(n int) []domain.ImageRef {
	out := make([]domain.ImageRef, n)
	for i := range out {
		out[i] = domain.ImageRef{ID: "old-" + string(rune('0'+i)), URL: "https://images.example/old.png", Prompt: "old"}
	}
	return out
}

package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ashureev/color-magic/internal/alexa"
)

var (
	// ErrNoHandler is returned when no registered handler accepts a request.
	ErrNoHandler = errors.New("no handler can handle the request")
	// ErrHandlerPanic wraps a recovered panic from a handler or interceptor.
	ErrHandlerPanic = errors.New("handler panicked")
)

// Handler handles one kind of request.
type Handler interface {
	CanHandle(in *Input) bool
	Handle(in *Input) (*alexa.Response, error)
}

// RequestInterceptor runs before handler selection.
type RequestInterceptor interface {
	Process(in *Input) error
}

// ResponseInterceptor runs after a handler produced a response.
type ResponseInterceptor interface {
	Process(in *Input, resp *alexa.Response) error
}

// ErrorHandler converts a dispatch failure into a response.
type ErrorHandler interface {
	CanHandle(in *Input, err error) bool
	Handle(in *Input, err error) (*alexa.Response, error)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(in *Input) error

// Process calls f.
func (f RequestInterceptorFunc) Process(in *Input) error { return f(in) }

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(in *Input, resp *alexa.Response) error

// Process calls f.
func (f ResponseInterceptorFunc) Process(in *Input, resp *alexa.Response) error { return f(in, resp) }

// Router holds the ordered handler chain. Registration order is dispatch
// order, so catch-all handlers must be added last.
type Router struct {
	handlers             []Handler
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	errorHandlers        []ErrorHandler
	logger               *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{logger: logger}
}

// AddRequestHandlers appends handlers to the chain.
func (r *Router) AddRequestHandlers(handlers ...Handler) *Router {
	r.handlers = append(r.handlers, handlers...)
	return r
}

// AddRequestInterceptors appends request interceptors.
func (r *Router) AddRequestInterceptors(interceptors ...RequestInterceptor) *Router {
	r.requestInterceptors = append(r.requestInterceptors, interceptors...)
	return r
}

// AddResponseInterceptors appends response interceptors.
func (r *Router) AddResponseInterceptors(interceptors ...ResponseInterceptor) *Router {
	r.responseInterceptors = append(r.responseInterceptors, interceptors...)
	return r
}

// AddErrorHandlers appends error handlers.
func (r *Router) AddErrorHandlers(handlers ...ErrorHandler) *Router {
	r.errorHandlers = append(r.errorHandlers, handlers...)
	return r
}

// Dispatch runs one request through interceptors, the first matching handler
// and, on failure, the first matching error handler. An error is returned
// only when no error handler accepts the failure.
func (r *Router) Dispatch(ctx context.Context, env *alexa.RequestEnvelope) (*alexa.ResponseEnvelope, error) {
	in := NewInput(ctx, env)

	resp, err := r.dispatch(in)
	if err != nil {
		resp, err = r.handleError(in, err)
		if err != nil {
			return nil, err
		}
	}
	if resp == nil {
		resp = &alexa.Response{}
	}

	return &alexa.ResponseEnvelope{
		Version:           alexa.EnvelopeVersion,
		SessionAttributes: in.Attributes.SessionAttributes(),
		Response:          resp,
	}, nil
}

func (r *Router) dispatch(in *Input) (resp *alexa.Response, err error) {
	defer recoverInto(&err, r.logger, in)

	for _, ic := range r.requestInterceptors {
		if err := ic.Process(in); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	h := r.find(in)
	if h == nil {
		return nil, fmt.Errorf("%w: type=%s intent=%s", ErrNoHandler, in.RequestType(), in.Envelope.IntentName())
	}

	resp, err = h.Handle(in)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = in.ResponseBuilder.GetResponse()
	}

	for _, ic := range r.responseInterceptors {
		if err := ic.Process(in, resp); err != nil {
			return nil, fmt.Errorf("response interceptor: %w", err)
		}
	}

	return resp, nil
}

func (r *Router) find(in *Input) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(in) {
			return h
		}
	}
	return nil
}

func (r *Router) handleError(in *Input, cause error) (resp *alexa.Response, err error) {
	defer recoverInto(&err, r.logger, in)

	for _, eh := range r.errorHandlers {
		if eh.CanHandle(in, cause) {
			return eh.Handle(in, cause)
		}
	}
	return nil, cause
}

func recoverInto(err *error, logger *slog.Logger, in *Input) {
	if p := recover(); p != nil {
		logger.Error("Recovered panic during dispatch",
			"request_type", in.RequestType(),
			"panic", p,
			"stack", string(debug.Stack()))
		*err = fmt.Errorf("%w: %v", ErrHandlerPanic, p)
	}
}

package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GenerateMethod is the full gRPC method name of the backend's generate call.
const GenerateMethod = "/colormagic.imagegen.v1.ImageService/Generate"

// GrpcClient calls the image backend over gRPC. Requests and responses are
// google.protobuf.Struct messages.
type GrpcClient struct {
	conn    *grpc.ClientConn
	addr    string
	timeout time.Duration
	logger  *slog.Logger
}

// ClientConfig holds configuration for the gRPC client.
type ClientConfig struct {
	Address          string
	RequestTimeout   time.Duration
	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
}

// DefaultClientConfig returns default configuration for addr.
func DefaultClientConfig(addr string) ClientConfig {
	return ClientConfig{
		Address:          addr,
		RequestTimeout:   45 * time.Second,
		KeepaliveTime:    2 * time.Minute,
		KeepaliveTimeout: 10 * time.Second,
	}
}

// NewGrpcClient creates a client for the image backend. No network I/O
// happens until the first call.
func NewGrpcClient(cfg ClientConfig, logger *slog.Logger, opts ...grpc.DialOption) (*GrpcClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultClientConfig(cfg.Address).RequestTimeout
	}

	kacp := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: false,
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create image backend client for %s: %w", cfg.Address, err)
	}

	logger.Info("Image backend client created", "address", cfg.Address, "timeout", cfg.RequestTimeout)

	return &GrpcClient{
		conn:    conn,
		addr:    cfg.Address,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}, nil
}

// Generate requests one coloring page.
func (c *GrpcClient) Generate(ctx context.Context, req Request) (domain.ImageRef, error) {
	if req.Prompt == "" {
		return domain.ImageRef{}, ErrEmptyPrompt
	}

	in, err := structpb.NewStruct(map[string]any{
		"prompt":    req.Prompt,
		"style":     req.Style,
		"language":  string(req.Language),
		"parent_id": req.ParentID,
	})
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("encode generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, GenerateMethod, in, out); err != nil {
		c.logger.Warn("Image generation failed", "address", c.addr, "duration", time.Since(start), "error", err)
		return domain.ImageRef{}, classify(err)
	}

	fields := out.GetFields()
	img := domain.ImageRef{
		ID:        fields["image_id"].GetStringValue(),
		URL:       fields["image_url"].GetStringValue(),
		Prompt:    req.Prompt,
		CreatedAt: time.Now(),
	}
	if img.ID == "" || img.URL == "" {
		return domain.ImageRef{}, ErrInvalidResponse
	}

	c.logger.Debug("Image generated", "image_id", img.ID, "duration", time.Since(start))
	return img, nil
}

// Close releases the connection.
func (c *GrpcClient) Close() error {
	return c.conn.Close()
}

func classify(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	default:
		return fmt.Errorf("generate image: %w", err)
	}
}

var _ Generator = (*GrpcClient)(nil)

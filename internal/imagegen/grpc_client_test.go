package imagegen

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startBackend(t *testing.T, handle func(req *structpb.Struct) (*structpb.Struct, error)) *GrpcClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
		method, _ := grpc.MethodFromServerStream(stream)
		if method != GenerateMethod {
			return status.Errorf(codes.Unimplemented, "unknown method %s", method)
		}
		req := &structpb.Struct{}
		if err := stream.RecvMsg(req); err != nil {
			return err
		}
		resp, err := handle(req)
		if err != nil {
			return err
		}
		return stream.SendMsg(resp)
	}))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewGrpcClient(
		ClientConfig{Address: "passthrough:///bufnet", RequestTimeout: 2 * time.Second},
		nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("NewGrpcClient failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGenerateSendsPromptAndParsesImage(t *testing.T) {
	var gotPrompt, gotLanguage string
	client := startBackend(t, func(req *structpb.Struct) (*structpb.Struct, error) {
		gotPrompt = req.GetFields()["prompt"].GetStringValue()
		gotLanguage = req.GetFields()["language"].GetStringValue()
		return structpb.NewStruct(map[string]any{
			"image_id":  "img-42",
			"image_url": "https://images.example/img-42.png",
		})
	})

	img, err := client.Generate(context.Background(), Request{
		Prompt:   ColoringPagePrompt("a dragon"),
		Language: domain.LanguageGerman,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if img.ID != "img-42" || img.URL != "https://images.example/img-42.png" {
		t.Errorf("Unexpected image %+v", img)
	}
	if !strings.Contains(gotPrompt, "a dragon") {
		t.Errorf("Expected prompt to carry description, got %q", gotPrompt)
	}
	if gotLanguage != "de" {
		t.Errorf("Expected language de, got %q", gotLanguage)
	}
}

func TestGenerateClassifiesUnavailable(t *testing.T) {
	client := startBackend(t, func(*structpb.Struct) (*structpb.Struct, error) {
		return nil, status.Error(codes.Unavailable, "model loading")
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Expected ErrBackendUnavailable, got %v", err)
	}
}

func TestGenerateRejectsEmptyResponse(t *testing.T) {
	client := startBackend(t, func(*structpb.Struct) (*structpb.Struct, error) {
		return structpb.NewStruct(map[string]any{"image_id": "img-1"})
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	client := startBackend(t, func(*structpb.Struct) (*structpb.Struct, error) {
		t.Error("backend must not be called for empty prompts")
		return nil, nil
	})

	if _, err := client.Generate(context.Background(), Request{}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Expected ErrEmptyPrompt, got %v", err)
	}
}

func TestDisabledGenerator(t *testing.T) {
	if _, err := (Disabled{}).Generate(context.Background(), Request{Prompt: "p"}); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Expected ErrBackendUnavailable, got %v", err)
	}
}

func TestPrompts(t *testing.T) {
	if ColoringPagePrompt("   ") != "" {
		t.Error("Expected blank description to yield empty prompt")
	}
	base := ColoringPagePrompt("a cat")
	if got := ModifiedPrompt(base, "add a hat"); !strings.HasPrefix(got, base) || !strings.Contains(got, "add a hat") {
		t.Errorf("Unexpected modified prompt %q", got)
	}
	if ModifiedPrompt(base, "") != base {
		t.Error("Expected empty modification to keep prompt")
	}
}

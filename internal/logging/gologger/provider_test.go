package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("sitecore.validation")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "sitecore.validation"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	child.Debug("validation.text_failed", "kind", "SyntaxError")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProviderRejectsUnknownLevel(t *testing.T) {
	if _, err := NewProvider(Config{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestNormalizeLevel(t *testing.T) {
	got, err := normalizeLevel(" Warning ")
	if err != nil || got != glog.Warn {
		t.Fatalf("expected %q, got %q (%v)", glog.Warn, got, err)
	}
	if got, err := normalizeLevel(""); err != nil || got != "" {
		t.Fatalf("expected empty level to keep the default, got %q (%v)", got, err)
	}
}

func TestFocusModulesQualifiesShortNames(t *testing.T) {
	got := focusModules([]string{"shortcode", " sitecore.validation ", "", "sitecore"})
	want := []string{"sitecore.shortcode", "sitecore.validation", "sitecore"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAdapterCopiesContextFields(t *testing.T) {
	stub := &stubLogger{}
	ctx := logging.ContextWithBlock(context.Background(), "body[1]", "id-1", "markdown")

	wrap(stub).WithContext(ctx).Warn("shortcode.service.render_failed")

	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
	if len(stub.fields) != 1 || stub.fields[0][logging.FieldPath] != "body[1]" || stub.fields[0][logging.FieldBlockType] != "markdown" {
		t.Fatalf("expected block fields from context, got %v", stub.fields)
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"field": "body"}
	child := adapted.(interfaces.FieldsLogger).WithFields(fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["field"] = "summary"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["field"] != "body" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["field"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}

package youtube

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestClassify_QuotaReason(t *testing.T) {
	err := &googleapi.Error{
		Code: 403,
		Errors: []googleapi.ErrorItem{
			{Reason: "quotaExceeded", Message: "Quota exceeded"},
		},
	}

	got := Classify(err)
	if got.Category != CategoryQuota {
		t.Fatalf("category = %v, want CategoryQuota", got.Category)
	}
	if !strings.Contains(got.Message, "クォータ") {
		t.Errorf("message %q should mention クォータ", got.Message)
	}
	if !strings.Contains(got.Message, "PST") {
		t.Errorf("message %q should mention the PST reset time", got.Message)
	}
}

func TestClassify_AuthReasons(t *testing.T) {
	for _, reason := range []string{"keyInvalid", "keyExpired", "ipRefererBlocked", "accessNotConfigured"} {
		err := &googleapi.Error{
			Code:   400,
			Errors: []googleapi.ErrorItem{{Reason: reason}},
		}
		got := Classify(err)
		if got.Category != CategoryAuth {
			t.Errorf("reason %q: category = %v, want CategoryAuth", reason, got.Category)
		}
		if !strings.Contains(got.Message, "API Key") {
			t.Errorf("reason %q: message %q should mention API Key", reason, got.Message)
		}
	}
}

func TestClassify_NotFoundByCode(t *testing.T) {
	got := Classify(&googleapi.Error{Code: 404})
	if got.Category != CategoryNotFound {
		t.Fatalf("category = %v, want CategoryNotFound", got.Category)
	}
	if !strings.Contains(got.Message, "チャンネル") {
		t.Errorf("message %q should mention チャンネル", got.Message)
	}
}

func TestClassify_DeadlineIsNetwork(t *testing.T) {
	got := Classify(context.DeadlineExceeded)
	if got.Category != CategoryNetwork {
		t.Fatalf("category = %v, want CategoryNetwork", got.Category)
	}
	if !strings.Contains(got.Message, "ネットワーク") {
		t.Errorf("message %q should mention ネットワーク", got.Message)
	}
}

func TestClassify_FreeTextFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want Category
	}{
		{"request failed: quota limit hit", CategoryQuota},
		{"the API key is bad", CategoryAuth},
		{"dial tcp: connection timeout", CategoryNetwork},
		{"resource not found", CategoryNotFound},
	}
	for _, tt := range tests {
		got := Classify(errors.New(tt.msg))
		if got.Category != tt.want {
			t.Errorf("Classify(%q) category = %v, want %v", tt.msg, got.Category, tt.want)
		}
	}
}

func TestClassify_UnknownKeepsRawMessage(t *testing.T) {
	got := Classify(errors.New("weird upstream response"))
	if got.Category != CategoryUnknown {
		t.Fatalf("category = %v, want CategoryUnknown", got.Category)
	}
	if !strings.Contains(got.Message, "weird upstream response") {
		t.Errorf("message %q should include the raw error text", got.Message)
	}
}

func TestClassify_APIErrorPassthrough(t *testing.T) {
	orig := NewValidationError(MsgChannelURLRequired)
	got := Classify(orig)
	if got != orig {
		t.Fatal("an APIError should pass through unchanged")
	}
}

func TestClassify_WrappedAPIError(t *testing.T) {
	orig := NewNotFoundError(MsgChannelNotFound)
	got := Classify(wrapErr{orig})
	if got != orig {
		t.Fatal("a wrapped APIError should be unwrapped, not reclassified")
	}
}

type wrapErr struct{ err error }

func (w wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapErr) Unwrap() error { return w.err }

func TestTranslate(t *testing.T) {
	if got := Translate(nil); got != "" {
		t.Errorf("Translate(nil) = %q, want empty", got)
	}
	if got := Translate(context.DeadlineExceeded); !strings.Contains(got, "ネットワーク") {
		t.Errorf("Translate(deadline) = %q, want network message", got)
	}
}

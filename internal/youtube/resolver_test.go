package youtube

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestResolveChannelID_DirectURL(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/channel/UC1234567890", "UC1234567890"},
		{"https://www.youtube.com/channel/UC1234567890/videos", "UC1234567890"},
		{"youtube.com/channel/UCabc", "UCabc"},
	}
	for _, tt := range tests {
		got, err := client.ResolveChannelID(context.Background(), tt.url)
		if err != nil {
			t.Fatalf("ResolveChannelID(%q): %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("ResolveChannelID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
	if calls != 0 {
		t.Errorf("direct /channel/ URLs must not hit the network, got %d calls", calls)
	}
}

func TestResolveChannelID_InvalidURL(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	for _, url := range []string{"", "https://example.com/foo", "not a url"} {
		_, err := client.ResolveChannelID(context.Background(), url)
		apiErr := Classify(err)
		if apiErr == nil || apiErr.Category != CategoryValidation {
			t.Errorf("ResolveChannelID(%q) error = %v, want validation error", url, err)
		}
	}
}

func TestResolveChannelID_Username(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forUsername") != "legacyname" {
			t.Errorf("forUsername = %q, want legacyname", r.URL.Query().Get("forUsername"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"UClegacy"}]}`))
	}))

	got, err := client.ResolveChannelID(context.Background(), "https://www.youtube.com/user/legacyname")
	if err != nil {
		t.Fatalf("ResolveChannelID: %v", err)
	}
	if got != "UClegacy" {
		t.Errorf("got %q, want UClegacy", got)
	}
}

func TestResolveChannelID_Handle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forHandle") != "somehandle" {
			t.Errorf("forHandle = %q, want somehandle", r.URL.Query().Get("forHandle"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"UChandle"}]}`))
	}))

	got, err := client.ResolveChannelID(context.Background(), "https://www.youtube.com/@somehandle")
	if err != nil {
		t.Fatalf("ResolveChannelID: %v", err)
	}
	if got != "UChandle" {
		t.Errorf("got %q, want UChandle", got)
	}
}

func TestResolveChannelID_HandleFallsBackToSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/channels"):
			// forHandle finds nothing
			w.Write([]byte(`{"items":[]}`))
		case strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(`{"items":[
				{"id":{"channelId":"UCother"},"snippet":{"title":"Other","channelTitle":"Other"}},
				{"id":{"channelId":"UCexact"},"snippet":{"title":"somehandle","channelTitle":"somehandle"}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	got, err := client.ResolveChannelID(context.Background(), "https://www.youtube.com/@somehandle")
	if err != nil {
		t.Fatalf("ResolveChannelID: %v", err)
	}
	// The exact title match wins over the first search hit.
	if got != "UCexact" {
		t.Errorf("got %q, want UCexact", got)
	}
}

func TestResolveChannelID_HandleNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	}))

	_, err := client.ResolveChannelID(context.Background(), "https://www.youtube.com/@ghost")
	apiErr := Classify(err)
	if apiErr == nil || apiErr.Category != CategoryNotFound {
		t.Fatalf("error = %v, want not-found error", err)
	}
	if apiErr.Message != MsgChannelNotFound {
		t.Errorf("message = %q, want %q", apiErr.Message, MsgChannelNotFound)
	}
}

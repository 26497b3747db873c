package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tatsumix0801/tube-get/internal/cache"
	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

func testDriver(opts Options) (*Driver, *[]time.Duration) {
	d := New(cache.New(time.Minute), opts)
	var slept []time.Duration
	d.sleep = func(ctx context.Context, dur time.Duration) error {
		slept = append(slept, dur)
		return nil
	}
	return d, &slept
}

func makeVideos(ids ...string) []model.FormattedVideo {
	out := make([]model.FormattedVideo, len(ids))
	for i, id := range ids {
		out[i] = model.FormattedVideo{ID: id, Duration: "10:00"}
	}
	return out
}

// pages returns a PageFunc serving the given pages in order, keyed by the
// incoming token.
func pages(t *testing.T, pp ...*model.PageResult) PageFunc {
	t.Helper()
	i := 0
	return func(ctx context.Context, token string) (*model.PageResult, error) {
		if i >= len(pp) {
			t.Fatalf("unexpected page request %d (token %q)", i, token)
		}
		p := pp[i]
		i++
		return p, nil
	}
}

func TestFetchAll_PagesThrough(t *testing.T) {
	d, slept := testDriver(DefaultOptions())

	fetch := pages(t,
		&model.PageResult{Videos: makeVideos("a", "b"), NextPageToken: "tok2"},
		&model.PageResult{Videos: makeVideos("c"), NextPageToken: "tok3"},
		&model.PageResult{Videos: makeVideos("d")},
	)

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(res.Videos) != 4 {
		t.Fatalf("videos = %d, want 4", len(res.Videos))
	}
	if res.Partial || res.Truncated || res.FromCache {
		t.Errorf("flags = %+v, want clean completion", res)
	}

	// Two inter-page delays, both inside the early window.
	if len(*slept) != 2 {
		t.Fatalf("delays = %v, want 2", *slept)
	}
	for _, dur := range *slept {
		if dur != 300*time.Millisecond {
			t.Errorf("early delay = %v, want 300ms", dur)
		}
	}
}

func TestFetchAll_LateDelayAfterEarlyPages(t *testing.T) {
	opts := DefaultOptions()
	opts.EarlyPages = 2
	d, slept := testDriver(opts)

	fetch := pages(t,
		&model.PageResult{Videos: makeVideos("a"), NextPageToken: "t2"},
		&model.PageResult{Videos: makeVideos("b"), NextPageToken: "t3"},
		&model.PageResult{Videos: makeVideos("c"), NextPageToken: "t4"},
		&model.PageResult{Videos: makeVideos("d")},
	)

	if _, err := d.FetchAll(context.Background(), "UC1", fetch, nil); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	want := []time.Duration{300 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("delays = %v, want %v", *slept, want)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, (*slept)[i], want[i])
		}
	}
}

func TestFetchAll_MidSessionFailureIsPartial(t *testing.T) {
	d, _ := testDriver(DefaultOptions())

	calls := 0
	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		calls++
		if calls == 1 {
			return &model.PageResult{Videos: makeVideos("a", "b"), NextPageToken: "t2"}, nil
		}
		return nil, errors.New("quota limit hit")
	}

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("FetchAll should absorb the failure, got %v", err)
	}
	if !res.Partial {
		t.Error("result should be partial")
	}
	if len(res.Videos) != 2 {
		t.Errorf("videos = %d, want the 2 accumulated before the failure", len(res.Videos))
	}
	if !strings.Contains(res.Message, "2件取得済み") {
		t.Errorf("message = %q, want accumulated count", res.Message)
	}

	// A partial session must not be cached: the next call fetches again.
	calls = 0
	res2, err := d.FetchAll(context.Background(), "UC1", func(ctx context.Context, token string) (*model.PageResult, error) {
		calls++
		return &model.PageResult{Videos: makeVideos("a", "b", "c")}, nil
	}, nil)
	if err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	if res2.FromCache {
		t.Error("partial result should not have been cached")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want a fresh fetch", calls)
	}
}

func TestFetchAll_FirstPageFailureIsError(t *testing.T) {
	d, _ := testDriver(DefaultOptions())

	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		return nil, errors.New("quota limit hit")
	}

	_, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err == nil {
		t.Fatal("expected error when nothing was accumulated")
	}
	if youtube.Classify(err).Category != youtube.CategoryQuota {
		t.Errorf("category = %v, want CategoryQuota", youtube.Classify(err).Category)
	}
}

func TestFetchAll_MaxPagesCeiling(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxPages = 2
	d, _ := testDriver(opts)

	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		return &model.PageResult{Videos: makeVideos("v"), NextPageToken: "more"}, nil
	}

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if !res.Truncated {
		t.Error("result should be truncated at the page ceiling")
	}
	if len(res.Videos) != 2 {
		t.Errorf("videos = %d, want 2 (one per page)", len(res.Videos))
	}
	if res.Message == "" {
		t.Error("truncated result should carry a message")
	}
}

func TestFetchAll_MaxVideosCeiling(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxVideos = 3
	d, _ := testDriver(opts)

	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		return &model.PageResult{Videos: makeVideos("x", "y"), NextPageToken: "more"}, nil
	}

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if !res.Truncated {
		t.Error("result should be truncated at the video ceiling")
	}
	if len(res.Videos) != 4 {
		t.Errorf("videos = %d, want 4 (ceiling checked after appending)", len(res.Videos))
	}
}

func TestFetchAll_CachesCleanCompletion(t *testing.T) {
	d, _ := testDriver(DefaultOptions())

	calls := 0
	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		calls++
		return &model.PageResult{Videos: makeVideos("a")}, nil
	}

	if _, err := d.FetchAll(context.Background(), "UC1", fetch, nil); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	if !res.FromCache {
		t.Error("second call should be served from cache")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFetchAll_ReconcilesKnownMissingIDs(t *testing.T) {
	opts := DefaultOptions()
	opts.KnownMissingIDs = []string{"present", "absent"}
	d, _ := testDriver(opts)

	fetch := pages(t, &model.PageResult{Videos: makeVideos("present", "other")})

	var asked []string
	recoverFn := func(ctx context.Context, videoIDs []string) []model.FormattedVideo {
		asked = videoIDs
		return makeVideos("absent")
	}

	res, err := d.FetchAll(context.Background(), "UC1", fetch, recoverFn)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(asked) != 1 || asked[0] != "absent" {
		t.Errorf("recover asked for %v, want only the absent ID", asked)
	}
	if len(res.Videos) != 3 {
		t.Errorf("videos = %d, want pagination result + recovered video", len(res.Videos))
	}
}

func TestFetchAll_TagsVideoTypes(t *testing.T) {
	d, _ := testDriver(DefaultOptions())

	fetch := pages(t, &model.PageResult{Videos: []model.FormattedVideo{
		{ID: "short", Duration: "0:45"},
		{ID: "exactly60", Duration: "1:00"},
		{ID: "standard", Duration: "1:01"},
		{ID: "long", Duration: "1:23:45"},
	}})

	res, err := d.FetchAll(context.Background(), "UC1", fetch, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	want := map[string]string{
		"short":     model.VideoTypeShort,
		"exactly60": model.VideoTypeShort,
		"standard":  model.VideoTypeStandard,
		"long":      model.VideoTypeStandard,
	}
	for _, v := range res.Videos {
		if v.Type != want[v.ID] {
			t.Errorf("video %s type = %q, want %q", v.ID, v.Type, want[v.ID])
		}
	}
}

func TestFetchAll_OnPageHook(t *testing.T) {
	d, _ := testDriver(DefaultOptions())
	hookCalls := 0
	d.OnPage = func() { hookCalls++ }

	fetch := pages(t,
		&model.PageResult{Videos: makeVideos("a"), NextPageToken: "t2"},
		&model.PageResult{Videos: makeVideos("b")},
	)

	if _, err := d.FetchAll(context.Background(), "UC1", fetch, nil); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if hookCalls != 2 {
		t.Errorf("OnPage calls = %d, want 2", hookCalls)
	}
}

func TestFetchAll_PageTimeoutApplied(t *testing.T) {
	opts := DefaultOptions()
	opts.PageTimeout = 9 * time.Second
	d, _ := testDriver(opts)

	fetch := func(ctx context.Context, token string) (*model.PageResult, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatal("page context should carry a deadline")
		}
		if remaining := time.Until(deadline); remaining > 9*time.Second {
			t.Errorf("deadline %v away, want at most 9s", remaining)
		}
		return &model.PageResult{Videos: makeVideos("a")}, nil
	}

	if _, err := d.FetchAll(context.Background(), "UC1", fetch, nil); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
}

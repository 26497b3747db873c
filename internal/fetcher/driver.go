// Package fetcher drives full-catalog pagination over the single-page video
// fetcher: it advances the continuation token page by page, absorbs failures
// into partial results, reconciles known-missing IDs, and caches the final
// aggregate.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tatsumix0801/tube-get/internal/cache"
	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// PageFunc fetches one playlist page for a continuation token.
type PageFunc func(ctx context.Context, pageToken string) (*model.PageResult, error)

// RecoverFunc fetches specific video IDs directly, best-effort.
type RecoverFunc func(ctx context.Context, videoIDs []string) []model.FormattedVideo

// Driver state machine. Each page result advances the state: a continuation
// token keeps fetching, exhaustion moves to recovery, an exception ends the
// session as partial (with prior data) or failed (without).
type state int

const (
	stateIdle state = iota
	stateFetchingPage
	stateRecovering
	stateDone
	stateFailed
)

// Options bound one fetch session. The page/video ceilings and delays are
// explicit configuration, not hard-coded, so boundary behavior is testable.
type Options struct {
	MaxPages    int           // hard page ceiling (default 30)
	MaxVideos   int           // hard video ceiling (default 1500)
	PageTimeout time.Duration // per-page budget, must fit the server's 10s ceiling
	EarlyDelay  time.Duration // inter-page delay for the first EarlyPages pages
	LateDelay   time.Duration // inter-page delay afterwards
	EarlyPages  int

	// KnownMissingIDs are reconciled after pagination: any listed ID absent
	// from the accumulated set is fetched directly.
	KnownMissingIDs []string
}

// DefaultOptions returns the production limits: 30 pages / 1500 videos,
// 9-second page budget, 300ms then 500ms inter-page delays.
func DefaultOptions() Options {
	return Options{
		MaxPages:    30,
		MaxVideos:   1500,
		PageTimeout: 9 * time.Second,
		EarlyDelay:  300 * time.Millisecond,
		LateDelay:   500 * time.Millisecond,
		EarlyPages:  5,
	}
}

// Result is the outcome of one fetch session.
type Result struct {
	Videos    []model.FormattedVideo
	Partial   bool
	Truncated bool
	Message   string
	FromCache bool
}

// Driver owns the accumulating video array for the duration of one fetch
// session; the returned slice is treated as an immutable snapshot.
type Driver struct {
	cache *cache.Cache
	opts  Options

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error

	// OnPage, when set, is invoked once per fetched page (metrics hook).
	OnPage func()
}

// New creates a driver over the given session cache.
func New(c *cache.Cache, opts Options) *Driver {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 30
	}
	if opts.MaxVideos <= 0 {
		opts.MaxVideos = 1500
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 9 * time.Second
	}
	if opts.EarlyPages <= 0 {
		opts.EarlyPages = 5
	}
	return &Driver{cache: c, opts: opts, sleep: sleepCtx}
}

// FetchAll pages through the channel's uploads until the continuation token
// runs out or a safety limit trips. Concurrent sessions for the same key are
// collapsed into one. A cached aggregate is returned without any network
// activity.
func (d *Driver) FetchAll(ctx context.Context, key string, fetch PageFunc, recoverFn RecoverFunc) (*Result, error) {
	if cached, ok := d.cache.Get(cache.ChannelVideosKey(key)).([]model.FormattedVideo); ok {
		log.Debug().Str("key", key).Int("videos", len(cached)).Msg("videos served from cache")
		return &Result{Videos: cached, FromCache: true}, nil
	}

	v, err := d.cache.Deduped(key, func() (any, error) {
		return d.fetchSession(ctx, key, fetch, recoverFn)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (d *Driver) fetchSession(ctx context.Context, key string, fetch PageFunc, recoverFn RecoverFunc) (*Result, error) {
	start := time.Now()
	var videos []model.FormattedVideo
	token := ""
	pageCount := 0
	res := &Result{}

	st := stateFetchingPage
	for st == stateFetchingPage {
		pctx, cancel := context.WithTimeout(ctx, d.opts.PageTimeout)
		page, err := fetch(pctx, token)
		cancel()

		if err != nil {
			// A failure mid-session keeps what was already accumulated.
			if len(videos) > 0 {
				res.Partial = true
				res.Message = partialMessage(len(videos))
				log.Warn().Err(err).Str("key", key).Int("videos", len(videos)).
					Msg("page fetch failed, returning accumulated videos")
				st = stateDone
				break
			}
			log.Error().Err(err).Str("key", key).Msg("fetch session failed with no videos")
			return nil, youtube.Classify(err)
		}

		pageCount++
		if d.OnPage != nil {
			d.OnPage()
		}

		for i := range page.Videos {
			page.Videos[i].Type = videoType(page.Videos[i].Duration)
		}
		videos = append(videos, page.Videos...)

		log.Debug().Str("key", key).Int("page", pageCount).Int("accumulated", len(videos)).
			Bool("hasNextPage", page.NextPageToken != "").Msg("page appended")

		switch {
		case page.NextPageToken == "":
			st = stateRecovering
		case pageCount >= d.opts.MaxPages || len(videos) >= d.opts.MaxVideos:
			res.Truncated = true
			res.Message = truncatedMessage
			log.Warn().Str("key", key).Int("pages", pageCount).Int("videos", len(videos)).
				Msg("safety ceiling reached, stopping pagination")
			st = stateRecovering
		default:
			token = page.NextPageToken
			delay := d.opts.LateDelay
			if pageCount < d.opts.EarlyPages {
				delay = d.opts.EarlyDelay
			}
			if err := d.sleep(ctx, delay); err != nil {
				if len(videos) > 0 {
					res.Partial = true
					res.Message = partialMessage(len(videos))
					st = stateDone
				} else {
					return nil, youtube.Classify(err)
				}
			}
		}
	}

	if st == stateRecovering {
		videos = d.reconcileMissing(ctx, videos, recoverFn)
		st = stateDone

		// Only a cleanly completed session is worth caching.
		d.cache.Set(cache.ChannelVideosKey(key), videos)
	}

	res.Videos = videos
	log.Info().Str("key", key).Int("pages", pageCount).Int("videos", len(videos)).
		Bool("partial", res.Partial).Bool("truncated", res.Truncated).
		Dur("elapsed", time.Since(start)).Msg("fetch session complete")
	return res, nil
}

// reconcileMissing patches the accumulated set with any configured
// known-missing IDs that pagination failed to surface.
func (d *Driver) reconcileMissing(ctx context.Context, videos []model.FormattedVideo, recoverFn RecoverFunc) []model.FormattedVideo {
	if len(d.opts.KnownMissingIDs) == 0 || recoverFn == nil {
		return videos
	}

	seen := make(map[string]struct{}, len(videos))
	for i := range videos {
		seen[videos[i].ID] = struct{}{}
	}
	var missing []string
	for _, id := range d.opts.KnownMissingIDs {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return videos
	}

	log.Info().Strs("videoIds", missing).Msg("reconciling missing videos")
	recovered := recoverFn(ctx, missing)
	for i := range recovered {
		recovered[i].Type = videoType(recovered[i].Duration)
	}
	return append(videos, recovered...)
}

// videoType tags Shorts: anything parsing to 60 seconds or less.
func videoType(duration string) string {
	if youtube.ParseClockSeconds(duration) <= 60 {
		return model.VideoTypeShort
	}
	return model.VideoTypeStandard
}

func partialMessage(count int) string {
	return fmt.Sprintf("一部の動画取得に失敗しました（%d件取得済み）", count)
}

const truncatedMessage = "取得上限に達しました（続きがある可能性があります）"

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package stats reduces a fetched video list to summary metrics.
package stats

import (
	"math"
	"time"

	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// Calculate reduces a non-empty video list to channel statistics. The
// most-viewed/most-liked references point into the input slice; ties keep the
// first occurrence.
func Calculate(videos []model.FormattedVideo) (*model.ChannelStats, error) {
	if len(videos) == 0 {
		return nil, youtube.NewValidationError(youtube.MsgStatsNoVideos)
	}

	var totalViews, totalLikes, totalComments int64
	var totalSpreadRate float64
	mostViewed, mostLiked := 0, 0

	for i := range videos {
		views := youtube.ParseCount(videos[i].ViewCount)
		likes := youtube.ParseCount(videos[i].LikeCount)

		totalViews += views
		totalLikes += likes
		totalComments += youtube.ParseCount(videos[i].CommentCount)
		totalSpreadRate += videos[i].SpreadRate

		if views > youtube.ParseCount(videos[mostViewed].ViewCount) {
			mostViewed = i
		}
		if likes > youtube.ParseCount(videos[mostLiked].LikeCount) {
			mostLiked = i
		}
	}

	n := int64(len(videos))
	return &model.ChannelStats{
		TotalVideos:     len(videos),
		TotalViews:      totalViews,
		AvgViews:        roundDiv(totalViews, n),
		AvgLikes:        roundDiv(totalLikes, n),
		AvgComments:     roundDiv(totalComments, n),
		AvgSpreadRate:   totalSpreadRate / float64(n),
		MostViewedVideo: &videos[mostViewed],
		MostLikedVideo:  &videos[mostLiked],
	}, nil
}

func roundDiv(sum, n int64) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

// IsGoodChannel reports whether any video published within the last month
// reached a spread rate of 100% or more.
func IsGoodChannel(videos []model.FormattedVideo) bool {
	if len(videos) == 0 {
		return false
	}
	oneMonthAgo := time.Now().AddDate(0, -1, 0)
	for i := range videos {
		published, err := time.Parse(time.RFC3339, videos[i].PublishedAt)
		if err != nil {
			continue
		}
		if !published.Before(oneMonthAgo) && videos[i].SpreadRate >= 100 {
			return true
		}
	}
	return false
}

// Period filter names accepted by FilterByPeriod.
const (
	PeriodWeek     = "week"
	PeriodMonth    = "month"
	PeriodQuarter  = "quarter"
	PeriodHalfYear = "halfyear"
	PeriodYear     = "year"
)

// FilterByPeriod returns the videos published on or after the cutoff implied
// by period. An unrecognised period returns the input unchanged.
func FilterByPeriod(videos []model.FormattedVideo, period string) []model.FormattedVideo {
	now := time.Now()
	var cutoff time.Time
	switch period {
	case PeriodWeek:
		cutoff = now.AddDate(0, 0, -7)
	case PeriodMonth:
		cutoff = now.AddDate(0, -1, 0)
	case PeriodQuarter:
		cutoff = now.AddDate(0, -3, 0)
	case PeriodHalfYear:
		cutoff = now.AddDate(0, -6, 0)
	case PeriodYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return videos
	}

	out := make([]model.FormattedVideo, 0, len(videos))
	for i := range videos {
		published, err := time.Parse(time.RFC3339, videos[i].PublishedAt)
		if err != nil {
			continue
		}
		if !published.Before(cutoff) {
			out = append(out, videos[i])
		}
	}
	return out
}

// Package export turns a fetched channel + video list into downloadable
// artifacts: CSV, Excel workbook, PDF row data, and a thumbnail ZIP.
package export

import (
	"fmt"
	"time"

	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// Options customize an export: which columns to include, how to render
// dates, and the output filename.
type Options struct {
	IncludeFields  []string `json:"includeFields"`
	DateFormat     string   `json:"dateFormat"`
	CustomFilename string   `json:"customFilename"`
}

// Field names accepted in Options.IncludeFields, in output order.
var fieldOrder = []string{
	"title", "publishedAt", "viewCount", "likeCount",
	"commentCount", "spreadRate", "duration", "url",
	"description", "tags",
}

var fieldHeaders = map[string]string{
	"title":        "タイトル",
	"publishedAt":  "投稿日",
	"viewCount":    "再生回数",
	"likeCount":    "高評価数",
	"commentCount": "コメント数",
	"spreadRate":   "拡散率",
	"duration":     "動画尺",
	"url":          "URL",
	"description":  "説明",
	"tags":         "タグ",
}

// defaultFields are what exports contain when no field selection is given.
var defaultFields = []string{
	"title", "publishedAt", "viewCount", "likeCount",
	"commentCount", "spreadRate", "duration", "url",
}

// ErrNoData is returned when there is nothing to export.
var ErrNoData = youtube.NewValidationError("エクスポートするデータがありません")

func selectedFields(opts *Options) []string {
	if opts == nil || len(opts.IncludeFields) == 0 {
		return defaultFields
	}
	want := make(map[string]bool, len(opts.IncludeFields))
	for _, f := range opts.IncludeFields {
		want[f] = true
	}
	var out []string
	for _, f := range fieldOrder {
		if want[f] {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return defaultFields
	}
	return out
}

// formatDate renders an RFC3339 timestamp per the requested date format.
// Unparseable input passes through unchanged.
func formatDate(rfc3339, dateFormat string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	switch dateFormat {
	case "japanese":
		return t.Format("2006年1月2日")
	case "iso":
		return t.Format("2006-01-02")
	default:
		return t.Format("2006/01/02")
	}
}

func fieldValue(v *model.FormattedVideo, field, dateFormat string) string {
	switch field {
	case "title":
		return v.Title
	case "publishedAt":
		return formatDate(v.PublishedAt, dateFormat)
	case "viewCount":
		return v.ViewCount
	case "likeCount":
		return v.LikeCount
	case "commentCount":
		return v.CommentCount
	case "spreadRate":
		return fmt.Sprintf("%.2f%%", v.SpreadRate)
	case "duration":
		return v.Duration
	case "url":
		return v.URL
	case "description":
		return v.Description
	case "tags":
		return joinTags(v.Tags)
	default:
		return ""
	}
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}

func formatInt(n int64) string {
	if n < 0 {
		return "0"
	}
	return youtube.FormatCount(uint64(n))
}

func exportFilename(opts *Options, channelTitle, suffix, ext string) string {
	if opts != nil && opts.CustomFilename != "" {
		return opts.CustomFilename + ext
	}
	return fmt.Sprintf("%s_%s%s", channelTitle, suffix, ext)
}

package export

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

const (
	videoSheet   = "動画一覧"
	channelSheet = "チャンネル情報"
)

// Excel renders the video list (and optional channel summary sheet) as a
// base64-encoded xlsx workbook. Numeric columns are written as numbers so
// the workbook sorts and sums without casting.
func Excel(info *model.ChannelInfo, videos []model.FormattedVideo, opts *Options) (data, filename string, err error) {
	if len(videos) == 0 {
		return "", "", ErrNoData
	}

	fields := selectedFields(opts)
	dateFormat := ""
	if opts != nil {
		dateFormat = opts.DateFormat
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", videoSheet)

	header := make([]any, len(fields))
	for i, fd := range fields {
		header[i] = fieldHeaders[fd]
	}
	if err := f.SetSheetRow(videoSheet, "A1", &header); err != nil {
		return "", "", err
	}

	for i := range videos {
		row := make([]any, len(fields))
		for j, fd := range fields {
			row[j] = cellValue(&videos[i], fd, dateFormat)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(videoSheet, cell, &row); err != nil {
			return "", "", err
		}
	}
	setVideoColumnWidths(f, fields)

	if info != nil {
		if err := writeChannelSheet(f, info); err != nil {
			return "", "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", "", err
	}

	title := "channel"
	if info != nil {
		title = info.Title
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()),
		exportFilename(opts, title, "videos", ".xlsx"), nil
}

// cellValue is fieldValue, except count columns come back as int64 and the
// spread rate as float64 so Excel treats them numerically.
func cellValue(v *model.FormattedVideo, field, dateFormat string) any {
	switch field {
	case "viewCount":
		return youtube.ParseCount(v.ViewCount)
	case "likeCount":
		return youtube.ParseCount(v.LikeCount)
	case "commentCount":
		return youtube.ParseCount(v.CommentCount)
	case "spreadRate":
		return v.SpreadRate
	default:
		return fieldValue(v, field, dateFormat)
	}
}

var columnWidths = map[string]float64{
	"title":        50,
	"publishedAt":  14,
	"viewCount":    12,
	"likeCount":    12,
	"commentCount": 12,
	"spreadRate":   10,
	"duration":     10,
	"url":          45,
	"description":  60,
	"tags":         30,
}

func setVideoColumnWidths(f *excelize.File, fields []string) {
	for i, fd := range fields {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		if w, ok := columnWidths[fd]; ok {
			_ = f.SetColWidth(videoSheet, col, col, w)
		}
	}
}

func writeChannelSheet(f *excelize.File, info *model.ChannelInfo) error {
	if _, err := f.NewSheet(channelSheet); err != nil {
		return err
	}

	rows := [][]any{
		{"項目", "値"},
		{"チャンネル名", info.Title},
		{"チャンネルID", info.ID},
		{"登録者数", info.SubscriberCount},
		{"動画数", info.VideoCount},
		{"総再生回数", info.ViewCount},
		{"開設日", formatDate(info.PublishedAt, "")},
		{"国", info.Country},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(channelSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(channelSheet, "A", "A", 18)
	_ = f.SetColWidth(channelSheet, "B", "B", 40)
	return nil
}

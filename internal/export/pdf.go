package export

import (
	"time"

	"github.com/tatsumix0801/tube-get/internal/model"
)

// PDFData is the pre-shaped table the client-side PDF renderer consumes:
// a header row, string cell rows, and a summary block. Shaping happens
// server-side so the renderer stays a dumb table printer.
type PDFData struct {
	Title       string     `json:"title"`
	GeneratedAt string     `json:"generatedAt"`
	Summary     [][]string `json:"summary"`
	Header      []string   `json:"header"`
	Rows        [][]string `json:"rows"`
	Filename    string     `json:"filename"`
}

// PDF shapes the video list into renderer-ready row data.
func PDF(info *model.ChannelInfo, videos []model.FormattedVideo, stats *model.ChannelStats, opts *Options) (*PDFData, error) {
	if len(videos) == 0 {
		return nil, ErrNoData
	}

	fields := selectedFields(opts)
	dateFormat := ""
	if opts != nil {
		dateFormat = opts.DateFormat
	}

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = fieldHeaders[f]
	}

	rows := make([][]string, 0, len(videos))
	for i := range videos {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = fieldValue(&videos[i], f, dateFormat)
		}
		rows = append(rows, row)
	}

	title := "チャンネル分析レポート"
	filenameBase := "channel"
	var summary [][]string
	if info != nil {
		title = info.Title + " 分析レポート"
		filenameBase = info.Title
		summary = append(summary,
			[]string{"登録者数", info.SubscriberCount},
			[]string{"動画数", info.VideoCount},
			[]string{"総再生回数", info.ViewCount},
		)
	}
	if stats != nil {
		summary = append(summary,
			[]string{"平均再生回数", formatInt(stats.AvgViews)},
			[]string{"平均高評価数", formatInt(stats.AvgLikes)},
			[]string{"平均コメント数", formatInt(stats.AvgComments)},
		)
	}

	return &PDFData{
		Title:       title,
		GeneratedAt: time.Now().Format("2006/01/02 15:04"),
		Summary:     summary,
		Header:      header,
		Rows:        rows,
		Filename:    exportFilename(opts, filenameBase, "report", ".pdf"),
	}, nil
}

package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"

	"github.com/tatsumix0801/tube-get/internal/model"
)

// utf8BOM keeps Japanese column headers intact when the CSV is opened in
// Excel, which assumes Shift_JIS for BOM-less files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV renders the video list as a base64-encoded UTF-8 CSV with a BOM.
func CSV(channelTitle string, videos []model.FormattedVideo, opts *Options) (data, filename string, err error) {
	if len(videos) == 0 {
		return "", "", ErrNoData
	}

	fields := selectedFields(opts)
	dateFormat := ""
	if opts != nil {
		dateFormat = opts.DateFormat
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = fieldHeaders[f]
	}
	if err := w.Write(header); err != nil {
		return "", "", err
	}

	row := make([]string, len(fields))
	for i := range videos {
		for j, f := range fields {
			row[j] = fieldValue(&videos[i], f, dateFormat)
		}
		if err := w.Write(row); err != nil {
			return "", "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()),
		exportFilename(opts, channelTitle, "videos", ".csv"), nil
}

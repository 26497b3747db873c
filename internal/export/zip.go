package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tatsumix0801/tube-get/internal/model"
)

// thumbnailClient has its own timeout: thumbnail CDNs are outside the API
// budget and one slow image must not stall the whole archive.
var thumbnailClient = &http.Client{Timeout: 15 * time.Second}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// maxZipThumbnails caps the archive size; beyond this the response would
// blow past what a serverless function can return.
const maxZipThumbnails = 200

// ThumbnailZIP downloads every video's thumbnail and packs them into a
// base64-encoded ZIP. Individual download failures are skipped, not fatal;
// the archive fails only when nothing could be fetched.
func ThumbnailZIP(ctx context.Context, channelTitle string, videos []model.FormattedVideo) (data, filename string, err error) {
	if len(videos) == 0 {
		return "", "", ErrNoData
	}
	if len(videos) > maxZipThumbnails {
		videos = videos[:maxZipThumbnails]
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	added := 0

	for i := range videos {
		if videos[i].Thumbnail == "" {
			continue
		}
		img, err := fetchImage(ctx, videos[i].Thumbnail)
		if err != nil {
			log.Warn().Err(err).Str("videoId", videos[i].ID).Msg("thumbnail download failed, skipping")
			continue
		}

		name := fmt.Sprintf("%s_%s.jpg",
			unsafeFilenameChars.ReplaceAllString(videos[i].Title, "_"), videos[i].ID)
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return "", "", err
		}
		if _, err := w.Write(img); err != nil {
			zw.Close()
			return "", "", err
		}
		added++
	}

	if err := zw.Close(); err != nil {
		return "", "", err
	}
	if added == 0 {
		return "", "", ErrNoData
	}

	log.Info().Int("thumbnails", added).Int("videos", len(videos)).Msg("thumbnail archive built")
	return base64.StdEncoding.EncodeToString(buf.Bytes()),
		exportFilename(nil, channelTitle, "thumbnails", ".zip"), nil
}

func fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := thumbnailClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

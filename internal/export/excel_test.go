package export

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tatsumix0801/tube-get/internal/model"
)

func sampleChannel() *model.ChannelInfo {
	return &model.ChannelInfo{
		ID:              "UC1",
		Title:           "テストチャンネル",
		SubscriberCount: "10,000",
		VideoCount:      "123",
		ViewCount:       "1,234,567",
		PublishedAt:     "2020-06-01T00:00:00Z",
		Country:         "JP",
	}
}

func TestExcel(t *testing.T) {
	data, filename, err := Excel(sampleChannel(), sampleVideos(), nil)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}
	if filename != "テストチャンネル_videos.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("base64 decode: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(videoSheet, "A1")
	if err != nil || got != "タイトル" {
		t.Errorf("A1 = %q (%v), want タイトル", got, err)
	}
	got, _ = f.GetCellValue(videoSheet, "A2")
	if got != "最初の動画" {
		t.Errorf("A2 = %q, want 最初の動画", got)
	}
	// Counts are numeric cells, parsed from the formatted strings.
	got, _ = f.GetCellValue(videoSheet, "C2")
	if got != "12345" {
		t.Errorf("C2 = %q, want 12345", got)
	}

	got, _ = f.GetCellValue(channelSheet, "B2")
	if got != "テストチャンネル" {
		t.Errorf("channel sheet B2 = %q", got)
	}
	got, _ = f.GetCellValue(channelSheet, "B4")
	if got != "10,000" {
		t.Errorf("channel sheet B4 = %q, want 10,000", got)
	}
}

func TestExcel_WithoutChannelInfo(t *testing.T) {
	data, filename, err := Excel(nil, sampleVideos(), nil)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}
	if filename != "channel_videos.xlsx" {
		t.Errorf("filename = %q, want channel_videos.xlsx", filename)
	}

	raw, _ := base64.StdEncoding.DecodeString(data)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	// No channel sheet when no channel info was provided.
	if idx, _ := f.GetSheetIndex(channelSheet); idx != -1 {
		t.Error("channel sheet should be absent")
	}
}

func TestExcel_Empty(t *testing.T) {
	if _, _, err := Excel(sampleChannel(), nil, nil); err == nil {
		t.Fatal("expected error for empty video list")
	}
}

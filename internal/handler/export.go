package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tatsumix0801/tube-get/internal/export"
	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/stats"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// ExportHandler serves the download routes. The client posts back the data it
// already fetched; the server shapes it into files without re-hitting the
// YouTube API.
type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type exportRequest struct {
	ChannelInfo *model.ChannelInfo     `json:"channelInfo"`
	Videos      []model.FormattedVideo `json:"videos"`
	Options     *export.Options        `json:"exportOptions"`
}

func (r *exportRequest) channelTitle() string {
	if r.ChannelInfo != nil {
		return r.ChannelInfo.Title
	}
	return "channel"
}

func parseExportRequest(c fiber.Ctx) (*exportRequest, error) {
	var req exportRequest
	if err := c.Bind().Body(&req); err != nil {
		return nil, youtube.NewValidationError(youtube.MsgExportDataRequired)
	}
	if len(req.Videos) == 0 {
		return nil, youtube.NewValidationError(youtube.MsgExportDataRequired)
	}
	return &req, nil
}

// ExportCSV handles POST /api/export/csv.
func (h *ExportHandler) ExportCSV(c fiber.Ctx) error {
	req, err := parseExportRequest(c)
	if err != nil {
		return fail(c, err)
	}

	data, filename, err := export.CSV(req.channelTitle(), req.Videos, req.Options)
	if err != nil {
		return fail(c, err)
	}
	Metrics.ExportsTotal.WithLabelValues("csv").Inc()

	return c.JSON(fiber.Map{"success": true, "data": data, "filename": filename})
}

// ExportExcel handles POST /api/export/excel.
func (h *ExportHandler) ExportExcel(c fiber.Ctx) error {
	req, err := parseExportRequest(c)
	if err != nil {
		return fail(c, err)
	}

	data, filename, err := export.Excel(req.ChannelInfo, req.Videos, req.Options)
	if err != nil {
		return fail(c, err)
	}
	Metrics.ExportsTotal.WithLabelValues("excel").Inc()

	return c.JSON(fiber.Map{"success": true, "data": data, "filename": filename})
}

// ExportPDF handles POST /api/export/pdf — returns renderer-ready row data,
// not a binary; the client draws the document.
func (h *ExportHandler) ExportPDF(c fiber.Ctx) error {
	req, err := parseExportRequest(c)
	if err != nil {
		return fail(c, err)
	}

	channelStats, _ := stats.Calculate(req.Videos)
	data, err := export.PDF(req.ChannelInfo, req.Videos, channelStats, req.Options)
	if err != nil {
		return fail(c, err)
	}
	Metrics.ExportsTotal.WithLabelValues("pdf").Inc()

	return c.JSON(fiber.Map{"success": true, "pdfData": data, "filename": data.Filename})
}

// ExportThumbnails handles GET /api/export/thumbnails?channelUrl=&apiKey= —
// fetches the catalog and zips every thumbnail.
func (h *ExportHandler) ExportThumbnails(c fiber.Ctx) error {
	channelURL := fiber.Query[string](c, "channelUrl")
	if channelURL == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelURLRequired))
	}

	client, err := youtube.NewClient(c.Context(), apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	channelID, err := client.ResolveChannelID(c.Context(), channelURL)
	if err != nil {
		return fail(c, err)
	}

	page, err := client.FetchVideoPage(c.Context(), channelID, "", youtube.DefaultPageOptions())
	if err != nil {
		return fail(c, err)
	}

	title := channelID
	if info, err := client.ChannelInfo(c.Context(), channelID); err == nil {
		title = info.Title
	}

	data, filename, err := export.ThumbnailZIP(c.Context(), title, page.Videos)
	if err != nil {
		return fail(c, err)
	}
	Metrics.ExportsTotal.WithLabelValues("thumbnails").Inc()

	return c.JSON(fiber.Map{"success": true, "data": data, "filename": filename})
}

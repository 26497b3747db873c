package model

// Video type values assigned by the pagination driver.
const (
	VideoTypeStandard = "standard"
	VideoTypeShort    = "short"
)

// FormattedVideo is the canonical video record used throughout the system.
// Counts are decimal-comma formatted strings ("12,345"); restricted videos
// may carry "N/A" placeholders instead.
type FormattedVideo struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PublishedAt   string   `json:"publishedAt"`
	Thumbnail     string   `json:"thumbnail"`
	Duration      string   `json:"duration"`
	ViewCount     string   `json:"viewCount"`
	LikeCount     string   `json:"likeCount"`
	CommentCount  string   `json:"commentCount"`
	SpreadRate    float64  `json:"spreadRate"`
	URL           string   `json:"url"`
	Tags          []string `json:"tags"`
	Topics        []string `json:"topics"`
	Type          string   `json:"type,omitempty"`
	Restricted    bool     `json:"restricted,omitempty"`
	PrivacyStatus string   `json:"privacyStatus,omitempty"`
}

// PageResult is one page of the uploads playlist, already resolved to
// FormattedVideo records. NextPageToken is empty when there is no further page.
type PageResult struct {
	Videos        []FormattedVideo `json:"videos"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
	TotalResults  int64            `json:"totalResults"`
	Method        string           `json:"method,omitempty"`
}

// ChannelStats holds summary metrics derived from a video list.
// MostViewedVideo and MostLikedVideo reference entries of the source list.
type ChannelStats struct {
	TotalVideos     int             `json:"totalVideos"`
	TotalViews      int64           `json:"totalViews"`
	AvgViews        int64           `json:"avgViews"`
	AvgLikes        int64           `json:"avgLikes"`
	AvgComments     int64           `json:"avgComments"`
	AvgSpreadRate   float64         `json:"avgSpreadRate"`
	MostViewedVideo *FormattedVideo `json:"mostViewedVideo"`
	MostLikedVideo  *FormattedVideo `json:"mostLikedVideo"`
}

// VideosResponse is the API response for the per-page videos route.
type VideosResponse struct {
	Success       bool             `json:"success"`
	Videos        []FormattedVideo `json:"videos"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
	TotalResults  int64            `json:"totalResults"`
	Stats         *ChannelStats    `json:"stats"`
}

// AllVideosResponse is the API response for the full-catalog route.
type AllVideosResponse struct {
	Success   bool             `json:"success"`
	Videos    []FormattedVideo `json:"videos"`
	Stats     *ChannelStats    `json:"stats"`
	Partial   bool             `json:"partial,omitempty"`
	Truncated bool             `json:"truncated,omitempty"`
	Message   string           `json:"message,omitempty"`
}

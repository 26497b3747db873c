package model

// Thumbnail is a single channel/video thumbnail variant.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Thumbnails groups the thumbnail resolutions YouTube exposes.
type Thumbnails struct {
	Default  *Thumbnail `json:"default,omitempty"`
	Medium   *Thumbnail `json:"medium,omitempty"`
	High     *Thumbnail `json:"high,omitempty"`
	Standard *Thumbnail `json:"standard,omitempty"`
	Maxres   *Thumbnail `json:"maxres,omitempty"`
}

// ChannelInfo is the reshaped channel metadata handed to the UI layer.
// Counts are decimal-comma formatted strings.
type ChannelInfo struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CustomURL       string     `json:"customUrl"`
	PublishedAt     string     `json:"publishedAt"`
	Thumbnails      Thumbnails `json:"thumbnails"`
	SubscriberCount string     `json:"subscriberCount"`
	VideoCount      string     `json:"videoCount"`
	ViewCount       string     `json:"viewCount"`
	Country         string     `json:"country,omitempty"`
	Banner          string     `json:"banner,omitempty"`
	Keywords        []string   `json:"keywords"`
	Topics          []string   `json:"topics"`
}

// ImageURL is a downloadable channel image with its suggested filename.
type ImageURL struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ChannelImageURLs holds the icon/banner download URLs for a channel.
// Either entry may be nil when the channel has no such image.
type ChannelImageURLs struct {
	Icon   *ImageURL `json:"icon"`
	Banner *ImageURL `json:"banner"`
}

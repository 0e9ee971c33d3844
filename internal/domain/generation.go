package domain

// ImageStyle selects the visual template used for quote images.
type ImageStyle string

const (
	ImageStylePaper   ImageStyle = "paper"
	ImageStyleModern  ImageStyle = "modern"
	ImageStyleMinimal ImageStyle = "minimal"
)

// ParseImageStyle returns the matching style, or ImageStylePaper for anything unknown.
func ParseImageStyle(s string) ImageStyle {
	switch ImageStyle(s) {
	case ImageStyleModern, ImageStyleMinimal:
		return ImageStyle(s)
	default:
		return ImageStylePaper
	}
}

// GenerationRequest describes one pass through the generation pipeline.
type GenerationRequest struct {
	Theme            string `json:"theme"`
	TargetAudience   string `json:"target_audience"`
	FormatPreference string `json:"format_preference,omitempty"`
	Image            bool   `json:"image"`
	Video            bool   `json:"video"`
	ImageStyle       string `json:"image_style,omitempty"`
}

// WantsImage reports whether an image must be produced. A video always needs one.
func (r *GenerationRequest) WantsImage() bool {
	return r.Image || r.Video
}

// GenerationStatus tells whether the quote came from the model or the canned fallback.
type GenerationStatus string

const (
	GenerationStatusGenerated GenerationStatus = "generated"
	GenerationStatusFallback  GenerationStatus = "fallback"
)

// QuoteResult is the outcome of a quote generation attempt.
type QuoteResult struct {
	Quote          Quote            `json:"quote"`
	Status         GenerationStatus `json:"status"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}

// IsFallback reports whether the quote is a canned replacement.
func (r *QuoteResult) IsFallback() bool {
	return r.Status == GenerationStatusFallback
}

// MediaAsset is a generated file after it has been handed to object storage.
type MediaAsset struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// GenerationResult is the full pipeline output. Media failures do not discard the quote.
type GenerationResult struct {
	QuoteResult
	Image      *MediaAsset `json:"image,omitempty"`
	ImageError string      `json:"image_error,omitempty"`
	Video      *MediaAsset `json:"video,omitempty"`
	VideoError string      `json:"video_error,omitempty"`
}

// QuoteResponse is the flat shape returned by the generate endpoints and tools.
// Quote fields sit at the top level; media are reduced to their URL and object path.
type QuoteResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	Theme          Theme            `json:"theme"`
	TargetAudience Audience         `json:"target_audience"`
	CreatedAt      string           `json:"created_at"`
	Engagement     Engagement       `json:"engagement"`
	Status         GenerationStatus `json:"status"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	ImageURL       string           `json:"image_url,omitempty"`
	ImagePath      string           `json:"image_path,omitempty"`
	ImageError     string           `json:"image_error,omitempty"`
	VideoURL       string           `json:"video_url,omitempty"`
	VideoPath      string           `json:"video_path,omitempty"`
	VideoError     string           `json:"video_error,omitempty"`
}

// NewQuoteResponse flattens a pipeline result.
func NewQuoteResponse(r GenerationResult) QuoteResponse {
	q := r.Quote
	resp := QuoteResponse{
		ID:             q.ID,
		Title:          q.Title,
		Content:        q.Content,
		Theme:          q.Theme,
		TargetAudience: q.TargetAudience,
		CreatedAt:      q.CreatedAt.UTC().Format(TimestampLayout),
		Engagement:     q.Engagement,
		Status:         r.Status,
		FallbackReason: r.FallbackReason,
		ImageError:     r.ImageError,
		VideoError:     r.VideoError,
	}
	if r.Image != nil {
		resp.ImageURL, resp.ImagePath = r.Image.URL, r.Image.Path
	}
	if r.Video != nil {
		resp.VideoURL, resp.VideoPath = r.Video.URL, r.Video.Path
	}
	return resp
}

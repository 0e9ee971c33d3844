package domain

// UploadStatus represents where a reel upload currently stands.
// Values include UploadStatusPending, UploadStatusPublished, and UploadStatusError.
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusReady     UploadStatus = "ready"
	UploadStatusPublished UploadStatus = "published"
	UploadStatusError     UploadStatus = "error"
)

// Raw container status codes reported by the Graph API.
const (
	ContainerInProgress = "IN_PROGRESS"
	ContainerFinished   = "FINISHED"
	ContainerPublished  = "PUBLISHED"
	ContainerError      = "ERROR"
	ContainerExpired    = "EXPIRED"
)

// UploadStatusFromCode maps a raw container status code onto UploadStatus.
func UploadStatusFromCode(code string) UploadStatus {
	switch code {
	case ContainerFinished:
		return UploadStatusReady
	case ContainerPublished:
		return UploadStatusPublished
	case ContainerError, ContainerExpired:
		return UploadStatusError
	default:
		return UploadStatusPending
	}
}

// IsTerminal reports whether the status will not change without further action.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusReady || s == UploadStatusPublished || s == UploadStatusError
}

// ReelRequest holds the parameters for creating a reel container.
type ReelRequest struct {
	VideoURL    string  `json:"video_url" binding:"required"`
	Caption     string  `json:"caption"`
	ShareToFeed *bool   `json:"share_to_feed,omitempty"`
	ThumbOffset *int    `json:"thumb_offset,omitempty"`
	LocationID  *string `json:"location_id,omitempty"`
}

// SharesToFeed returns the share_to_feed flag, which defaults to true.
func (r *ReelRequest) SharesToFeed() bool {
	if r.ShareToFeed == nil {
		return true
	}
	return *r.ShareToFeed
}

// UploadJob tracks a reel container on the social platform.
type UploadJob struct {
	ContainerID string       `json:"container_id"`
	Status      UploadStatus `json:"status"`
	StatusCode  string       `json:"status_code,omitempty"`
	MediaID     string       `json:"media_id,omitempty"`
}

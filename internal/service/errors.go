package service

import "errors"

var (
	// ErrImageDisabled is returned when image generation has no endpoint or key.
	ErrImageDisabled = errors.New("image generation is not configured")

	// ErrStorageDisabled is returned when generated media has nowhere to go.
	ErrStorageDisabled = errors.New("object storage is not configured")

	// ErrVideoDisabled is returned when no video renderer is wired.
	ErrVideoDisabled = errors.New("video generation is not configured")

	// ErrReelsDisabled is returned when reel uploads have no credentials.
	ErrReelsDisabled = errors.New("reel uploads are not configured")

	// ErrContainerFailed is returned when a reel container ends in ERROR or EXPIRED.
	ErrContainerFailed = errors.New("reel container failed to become ready")

	// ErrContainerTimeout is returned when a reel container is still processing after the wait window.
	ErrContainerTimeout = errors.New("timed out waiting for reel container")
)

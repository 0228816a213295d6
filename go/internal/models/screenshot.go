package models

import (
	"time"

	"github.com/google/uuid"
)

// ScreenshotStatus is the review state of a submitted screenshot
type ScreenshotStatus string

const (
	ScreenshotStatusPending  ScreenshotStatus = "pending"
	ScreenshotStatusAccepted ScreenshotStatus = "accepted"
	ScreenshotStatusRejected ScreenshotStatus = "rejected"
)

// Screenshot is a record submitted by the OCR/review collaborator.
// The engine never interprets the image itself.
type Screenshot struct {
	ID           uuid.UUID        `json:"id"`
	ActorID      ActorID          `json:"actor_id"`
	DisplayName  string           `json:"display_name"`
	Tag          string           `json:"tag"`
	DetectedTime *string          `json:"detected_time,omitempty"`
	ChannelRef   string           `json:"channel_ref"`
	ImageRef     string           `json:"image_ref"`
	Status       ScreenshotStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

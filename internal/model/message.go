package model

import "time"

// Message is the persisted record of one inbound event. Rows are written
// exactly once, before classification, and never updated or deleted.
type Message struct {
	// ID is the store-assigned unique identifier.
	ID int64 `json:"id"`

	// SourceMessageID is the message's identifier within its platform.
	SourceMessageID string `json:"source_message_id"`

	// GroupID identifies the originating group.
	GroupID int64 `json:"group_id"`

	// GroupName is the group's title at the time the message arrived.
	GroupName string `json:"group_name"`

	// SenderID identifies the sender, when known.
	SenderID *int64 `json:"sender_id,omitempty"`

	// Text is the raw message text, possibly empty.
	Text string `json:"text"`

	// HasMedia reports whether the message carried an image attachment.
	HasMedia bool `json:"has_media"`

	// CreatedAt is assigned by the store; non-decreasing with insertion
	// order.
	CreatedAt time.Time `json:"created_at"`
}

package model

// SourceType identifies the kind of message-stream integration.
type SourceType string

const (
	SourceTypeTelegram SourceType = "telegram"
	SourceTypeEmail    SourceType = "email"
	SourceTypeScripted SourceType = "scripted"
)

// MediaRef is an opaque handle to media attached to an event. Only the
// source that produced it knows how to resolve it into bytes.
type MediaRef string

// Group is a chat group or channel that can be monitored.
type Group struct {
	// ID is the platform-native group identifier.
	ID int64 `json:"id"`

	// Name is the human-readable group title.
	Name string `json:"name"`

	// IsGroupOrChannel reports whether this dialog is a group or channel
	// (as opposed to a direct conversation) and therefore monitorable.
	IsGroupOrChannel bool `json:"is_group_or_channel"`
}

// InboundEvent is the fixed-shape representation of one message arriving
// from a source. Platform-specific payloads are adapted into this value at
// the source boundary.
type InboundEvent struct {
	// SourceMessageID is the message's identifier within its platform.
	SourceMessageID string `json:"source_message_id"`

	// GroupID identifies the group the message was posted in.
	GroupID int64 `json:"group_id"`

	// GroupName is the group's title at the time of the event.
	GroupName string `json:"group_name"`

	// SenderID identifies the sender, when the platform exposes one.
	SenderID *int64 `json:"sender_id,omitempty"`

	// Text is the message text; empty for media-only messages.
	Text string `json:"text"`

	// Media references an attached image, if any.
	Media *MediaRef `json:"media,omitempty"`
}

// HasMedia reports whether the event carries an image attachment.
func (e InboundEvent) HasMedia() bool {
	return e.Media != nil
}

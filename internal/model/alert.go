package model

import "time"

// AlertKind identifies which classification path produced an alert.
type AlertKind string

const (
	// AlertKindText marks alerts derived from the message's own text.
	AlertKindText AlertKind = "text"

	// AlertKindImage marks alerts derived from recognized image text.
	AlertKindImage AlertKind = "image"
)

// Alert records a detected brand mention, linked to the message it was
// derived from.
type Alert struct {
	ID int64 `json:"id"`

	// MessageRefID references the originating Message row.
	MessageRefID int64 `json:"message_ref_id"`

	// GroupID is a denormalized copy of the message's group id.
	GroupID int64 `json:"group_id"`

	Kind AlertKind `json:"kind"`

	// Brand is the matched vocabulary entry.
	Brand string `json:"brand"`

	// Content is the full classified text the brand was found in, not
	// just the matched substring.
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

// RecentAlert is an alert joined with its message's group name for display.
type RecentAlert struct {
	Alert

	GroupName string `json:"group_name"`
}

// BrandCount pairs a brand with its alert count.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// Stats is an aggregate snapshot of the store.
type Stats struct {
	Messages int64 `json:"messages"`
	Alerts   int64 `json:"alerts"`

	// ByKind counts alerts per classification kind.
	ByKind map[AlertKind]int64 `json:"by_kind"`

	// TopBrands holds the five most-alerted brands, descending.
	TopBrands []BrandCount `json:"top_brands"`
}

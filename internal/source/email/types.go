package email

import "time"

// Envelope holds the parsed envelope data from an IMAP message.
type Envelope struct {
	MessageID string
	Subject   string
	From      string
	Date      time.Time
	UID       uint32
}

// ParsedMessage holds the full parsed content of an email message.
type ParsedMessage struct {
	Envelope    Envelope
	TextBody    string
	Attachments []Attachment
}

// Attachment holds one message attachment. Body is retained so image
// attachments can be handed to recognition without another round trip.
type Attachment struct {
	Filename string
	MIMEType string
	Body     []byte
}

// IsImage reports whether the attachment is an image by MIME type.
func (a Attachment) IsImage() bool {
	return len(a.MIMEType) >= 6 && a.MIMEType[:6] == "image/"
}

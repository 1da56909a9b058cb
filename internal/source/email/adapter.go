// Package email adapts an IMAP mailbox into a message-stream source, so a
// monitored inbox (e.g. forwarded reports) feeds the same classification
// pipeline as chat groups.
package email

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/internal/source"
)

// Adapter implements source.Source over an IMAP mailbox. Each unseen mail
// becomes one inbound event; the subject and text body form the event
// text, and the first image attachment becomes its media reference.
type Adapter struct {
	client   *IMAPClient
	name     string
	interval time.Duration
}

// NewAdapter creates an email source polling the mailbox every interval.
func NewAdapter(client *IMAPClient, name string, interval time.Duration) *Adapter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Adapter{client: client, name: name, interval: interval}
}

// Type returns the source type identifier.
func (a *Adapter) Type() model.SourceType {
	return model.SourceTypeEmail
}

// ListGroups returns the watched mailbox as the single monitorable group.
func (a *Adapter) ListGroups(ctx context.Context) ([]model.Group, error) {
	// Connecting validates the credentials up front, before monitoring
	// is offered.
	client, err := a.client.Connect(ctx)
	if err != nil {
		return nil, err
	}
	_ = client.Logout().Wait()

	return []model.Group{
		{ID: a.groupID(), Name: a.groupName(), IsGroupOrChannel: true},
	}, nil
}

// Events polls the mailbox for unseen messages and emits each as an
// inbound event. The channel closes when ctx is canceled.
func (a *Adapter) Events(ctx context.Context, groupIDs []int64) (<-chan model.InboundEvent, error) {
	wanted := false
	for _, id := range groupIDs {
		if id == a.groupID() {
			wanted = true
		}
	}
	if len(groupIDs) == 0 {
		wanted = true
	}

	ch := make(chan model.InboundEvent)
	if !wanted {
		close(ch)
		return ch, nil
	}

	go func() {
		defer close(ch)

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		a.poll(ctx, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.poll(ctx, ch)
			}
		}
	}()

	return ch, nil
}

// poll fetches unseen mail and forwards it as events.
func (a *Adapter) poll(ctx context.Context, ch chan<- model.InboundEvent) {
	messages, err := a.client.FetchUnseen(ctx, 50)
	if err != nil {
		// Polling failures are transient; the next tick retries.
		return
	}

	for _, msg := range messages {
		ev := a.eventFromMessage(msg)
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// eventFromMessage converts a parsed mail into the pipeline's event shape.
func (a *Adapter) eventFromMessage(msg *ParsedMessage) model.InboundEvent {
	text := strings.TrimSpace(msg.Envelope.Subject)
	if body := strings.TrimSpace(msg.TextBody); body != "" {
		if text != "" {
			text += "\n"
		}
		text += body
	}

	ev := model.InboundEvent{
		SourceMessageID: msg.Envelope.MessageID,
		GroupID:         a.groupID(),
		GroupName:       a.groupName(),
		Text:            text,
	}
	if ev.SourceMessageID == "" {
		ev.SourceMessageID = fmt.Sprintf("uid-%d", msg.Envelope.UID)
	}

	for i, att := range msg.Attachments {
		if att.IsImage() {
			ref := model.MediaRef(fmt.Sprintf("%d:%d", msg.Envelope.UID, i))
			ev.Media = &ref
			break
		}
	}

	return ev
}

// DownloadMedia resolves a "uid:index" reference by re-fetching the
// message and returning that attachment's bytes.
func (a *Adapter) DownloadMedia(ctx context.Context, ref model.MediaRef) ([]byte, error) {
	uidStr, idxStr, ok := strings.Cut(string(ref), ":")
	if !ok {
		return nil, fmt.Errorf("malformed media ref %q", ref)
	}
	uid, err := strconv.ParseUint(uidStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("malformed media ref %q: %w", ref, err)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return nil, fmt.Errorf("malformed media ref %q: %w", ref, err)
	}

	msg, err := a.client.FetchMessage(ctx, uint32(uid))
	if err != nil {
		return nil, &source.TransientError{Op: "media fetch", Err: err}
	}
	if idx < 0 || idx >= len(msg.Attachments) {
		return nil, fmt.Errorf("media ref %q: attachment gone", ref)
	}

	return msg.Attachments[idx].Body, nil
}

// Close is a no-op: connections are per-operation.
func (a *Adapter) Close() error {
	return nil
}

// groupID derives a stable id for the watched mailbox.
func (a *Adapter) groupID() int64 {
	h := fnv.New32a()
	h.Write([]byte(a.groupName()))
	return int64(h.Sum32())
}

func (a *Adapter) groupName() string {
	if a.name != "" {
		return a.name
	}
	return a.client.mailbox
}

var _ source.Source = (*Adapter)(nil)

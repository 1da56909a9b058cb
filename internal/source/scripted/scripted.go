// Package scripted replays inbound events from a YAML script file. It
// exists for demos and failure injection: media references name local
// files, and a missing file behaves like a failed download.
package scripted

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/internal/source"
)

// scriptEvent is one entry in the script file.
type scriptEvent struct {
	ID        string `mapstructure:"id"`
	GroupID   int64  `mapstructure:"group_id"`
	GroupName string `mapstructure:"group_name"`
	SenderID  *int64 `mapstructure:"sender_id"`
	Text      string `mapstructure:"text"`
	Media     string `mapstructure:"media"` // path relative to the script file
}

// scriptGroup is one monitorable group declared in the script file.
type scriptGroup struct {
	ID               int64  `mapstructure:"id"`
	Name             string `mapstructure:"name"`
	IsGroupOrChannel bool   `mapstructure:"is_group_or_channel"`
}

// script is the parsed script file.
type script struct {
	Groups []scriptGroup `mapstructure:"groups"`
	Events []scriptEvent `mapstructure:"events"`
}

// Source replays a script file's events with a fixed inter-event delay.
type Source struct {
	dir    string
	script script
	delay  time.Duration
}

// New loads the script at path. delay spaces out the replayed events;
// zero replays them back to back.
func New(path string, delay time.Duration) (*Source, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}

	var sc script
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}

	return &Source{
		dir:    filepath.Dir(path),
		script: sc,
		delay:  delay,
	}, nil
}

// Type returns the source type identifier.
func (s *Source) Type() model.SourceType {
	return model.SourceTypeScripted
}

// ListGroups returns the groups declared in the script.
func (s *Source) ListGroups(context.Context) ([]model.Group, error) {
	groups := make([]model.Group, 0, len(s.script.Groups))
	for _, g := range s.script.Groups {
		groups = append(groups, model.Group{
			ID:               g.ID,
			Name:             g.Name,
			IsGroupOrChannel: g.IsGroupOrChannel,
		})
	}
	return groups, nil
}

// Events replays the script's events for the selected groups and then
// closes the channel.
func (s *Source) Events(ctx context.Context, groupIDs []int64) (<-chan model.InboundEvent, error) {
	selected := make(map[int64]bool, len(groupIDs))
	for _, id := range groupIDs {
		selected[id] = true
	}

	ch := make(chan model.InboundEvent)
	go func() {
		defer close(ch)

		for _, se := range s.script.Events {
			if len(selected) > 0 && !selected[se.GroupID] {
				continue
			}

			ev := model.InboundEvent{
				SourceMessageID: se.ID,
				GroupID:         se.GroupID,
				GroupName:       se.GroupName,
				SenderID:        se.SenderID,
				Text:            se.Text,
			}
			if ev.SourceMessageID == "" {
				ev.SourceMessageID = uuid.New().String()
			}
			if se.Media != "" {
				ref := model.MediaRef(se.Media)
				ev.Media = &ref
			}

			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}

			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// DownloadMedia reads the referenced file relative to the script's
// directory. A missing file is a transient download failure.
func (s *Source) DownloadMedia(_ context.Context, ref model.MediaRef) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, string(ref)))
	if err != nil {
		return nil, &source.TransientError{Op: "media read", Err: err}
	}
	return data, nil
}

// Close is a no-op.
func (s *Source) Close() error {
	return nil
}

var _ source.Source = (*Source)(nil)

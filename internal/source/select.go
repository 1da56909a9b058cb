package source

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nhle/brandwatch/internal/model"
)

// Setup errors surface to the CLI layer; they are not part of the
// pipeline's steady-state error space.
var (
	// ErrNoGroups means the source exposes no groups or channels to monitor.
	ErrNoGroups = errors.New("no groups available")

	// ErrEmptySelection means the selection named no valid group.
	ErrEmptySelection = errors.New("no groups selected")
)

// SelectGroups resolves a comma-separated list of 1-based indices against
// the monitorable candidates (groups and channels only; direct chats are
// filtered out). Tokens that are not numbers or are out of range are
// skipped. Duplicate indices yield one entry.
func SelectGroups(candidates []model.Group, selection string) ([]int64, error) {
	var monitorable []model.Group
	for _, g := range candidates {
		if g.IsGroupOrChannel {
			monitorable = append(monitorable, g)
		}
	}
	if len(monitorable) == 0 {
		return nil, ErrNoGroups
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, token := range strings.Split(selection, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		if idx < 1 || idx > len(monitorable) {
			continue
		}
		id := monitorable[idx-1].ID
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	return ids, nil
}

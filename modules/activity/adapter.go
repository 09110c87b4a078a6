package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads the activity feed. An empty ownerID reads every entry.
type ActivityPort interface {
	RecentActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error)
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates an ActivityPort backed by the recent-activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	return &activityAdapter{container: container}
}

// RecentActivity fetches feed entries via the recent-activity service.
func (a *activityAdapter) RecentActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	req := RecentActivityRequest{OwnerID: ownerID, Limit: limit}
	var resp RecentActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"recent-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("recent-activity service call failed: %w", err)
	}
	if resp.Entries == nil {
		resp.Entries = make([]Entry, 0)
	}
	return resp.Entries, nil
}

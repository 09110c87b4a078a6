package activity

// RecentActivityRequest is the request for the recent-activity service.
type RecentActivityRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	Limit   int    `json:"limit"`
}

// RecentActivityResponse carries feed entries, newest first.
type RecentActivityResponse struct {
	Entries []Entry `json:"entries"`
}

package models

import "time"

// SyncAction is the verb accepted by the sync control endpoint.
type SyncAction string

const (
	SyncActionStart  SyncAction = "start"
	SyncActionStop   SyncAction = "stop"
	SyncActionSync   SyncAction = "sync"
	SyncActionStatus SyncAction = "status"
)

// SyncStatus is a point-in-time snapshot of one platform's sync loop.
type SyncStatus struct {
	Platform       Platform   `json:"platform"`
	IsRunning      bool       `json:"isRunning"`
	HasCredentials bool       `json:"hasCredentials"`
	IntervalMs     int        `json:"intervalMs,omitempty"`
	LastSyncAt     *time.Time `json:"lastSyncAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
}

// SyncRequest is the body of POST /api/sync.
// SyncRequest controls one platform's sync loop. Platform may be omitted
// for the sync action, which then fans out across every configured
// platform.
type SyncRequest struct {
	Platform Platform   `json:"platform" validate:"omitempty"`
	Action   SyncAction `json:"action" validate:"required,oneof=start stop sync status"`
}

// PlatformCredentials carries what a platform client needs to talk to the
// Graph API on behalf of one page or account.
type PlatformCredentials struct {
	AccessToken string `json:"accessToken" validate:"required"`
	PageID      string `json:"pageId" validate:"required"`
	PageName    string `json:"pageName"`
}

// Configured reports whether both required fields are present.
func (c PlatformCredentials) Configured() bool {
	return c.AccessToken != "" && c.PageID != ""
}

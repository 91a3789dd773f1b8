package entity

import "time"

// Marina is a physical location. IsOnline gates whether booking mutations
// apply immediately or are queued.
type Marina struct {
	BaseNoDelete
	Name       string     `db:"name"`
	IsOnline   bool       `db:"is_online"`
	LastSyncAt *time.Time `db:"last_sync_at"`
}

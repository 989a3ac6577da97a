package models

import "time"

// ScanLog stores an audit record of one /detect invocation.
// The activity records themselves are never persisted; this is only
// who ran a scan and how it went.
type ScanLog struct {
	UserID          string        `bson:"user_id"`
	UserName        string        `bson:"user_name,omitempty"`
	Workspace       string        `bson:"workspace"`
	MaxCount        int           `bson:"max_count"`
	ChannelsScanned int           `bson:"channels_scanned"`
	ChannelsFailed  []string      `bson:"channels_failed,omitempty"`
	MembersObserved int           `bson:"members_observed"`
	Duration        time.Duration `bson:"duration"`
	StartedAt       time.Time     `bson:"started_at"`
}

package store

import "time"

type Subscriber struct {
	ID        int64
	Email     string
	Source    string // page or channel the signup came from, e.g. "home" or "live:home"
	CreatedAt time.Time
}

type SourceStats struct {
	Source      string
	Subscribers int
}

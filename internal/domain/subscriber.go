package domain

import "time"

// Status enumerates the lifecycle states a subscriber can be in.
// Unsubscribed and bounced are modeled for forward compatibility; no
// current operation transitions into them.
type Status string

const (
	StatusPending      Status = "pending"
	StatusActive       Status = "active"
	StatusUnsubscribed Status = "unsubscribed"
	StatusBounced      Status = "bounced"
)

// Subscriber is one email-address record with lifecycle state and
// verification status. The index key and the Email field are always the
// lower-cased form of the address.
type Subscriber struct {
	Email             string         `json:"email"`
	JoinedDate        time.Time      `json:"joined_date"`
	Status            Status         `json:"status"`
	VerificationToken string         `json:"verification_token"`
	Verified          bool           `json:"verified"`
	LastUpdated       time.Time      `json:"last_updated"`
	Metadata          map[string]any `json:"metadata"`
}

// Pending reports whether the subscriber has registered but not yet
// redeemed their verification token.
func (s *Subscriber) Pending() bool {
	return s.Status == StatusPending
}

// Clone returns a deep copy so callers can hand out records without
// exposing the index's own pointers.
func (s *Subscriber) Clone() *Subscriber {
	dup := *s
	if s.Metadata != nil {
		dup.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			dup.Metadata[k] = v
		}
	}
	return &dup
}

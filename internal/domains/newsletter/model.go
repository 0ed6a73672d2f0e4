package newsletter

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is one newsletter recipient. An unsubscribe flips the flag
// and stamps unsubscribed_at but never deletes the row, so history and the
// re-subscribe path survive.
type Subscription struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	Subscribed       bool       `db:"subscribed" json:"subscribed"`
	UnsubscribeToken string     `db:"unsubscribe_token" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UnsubscribedAt   *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Page       int
	Limit      int
	Subscribed *bool
}

func (f *ListFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

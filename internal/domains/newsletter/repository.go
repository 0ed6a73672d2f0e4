package newsletter

import "context"

// Repository is the data access contract for newsletter subscriptions.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	Resubscribe(ctx context.Context, sub *Subscription) error

	// UnsubscribeByToken runs the conditional update
	// (WHERE unsubscribe_token = $1 AND subscribed = true) and reports
	// whether a row was flipped. Zero rows means the token is spent or was
	// never issued.
	UnsubscribeByToken(ctx context.Context, token string) (bool, error)

	List(ctx context.Context, filter *ListFilter) ([]Subscription, int64, error)
}

// Service is the business logic contract.
type Service interface {
	Subscribe(ctx context.Context, req SubscribeRequest) (*Subscription, error)
	Unsubscribe(ctx context.Context, token string) error
	List(ctx context.Context, filter *ListFilter) ([]Subscription, int64, error)
}

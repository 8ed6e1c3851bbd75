// Package auth is the boundary to the identity provider. The wallet only
// consumes a stable user id, an anonymous flag and a stream of state changes.
package auth

import (
	"context"
	"sync"
)

// User is the identity reported by the provider.
type User struct {
	UID         string `json:"uid"`
	IsAnonymous bool   `json:"isAnonymous"`
	Method      Method `json:"method,omitempty"`
}

// Provider is implemented by identity providers.
type Provider interface {
	// Subscribe delivers the current user right away and every change after
	// that. A nil *User means signed out.
	Subscribe() *Subscription

	// CurrentUser returns nil when nobody is signed in
	CurrentUser() *User

	SignOut(ctx context.Context) error
}

// Subscription is a latest-state stream of identity changes. C is buffered by
// one; a slow reader skips intermediate states and always sees the newest.
type Subscription struct {
	C <-chan *User

	ch     chan *User
	once   sync.Once
	cancel func(*Subscription)
}

func newSubscription(cancel func(*Subscription)) *Subscription {
	ch := make(chan *User, 1)
	return &Subscription{C: ch, ch: ch, cancel: cancel}
}

// publish replaces any undelivered state with u. Caller serializes publishes.
func (s *Subscription) publish(u *User) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- u
}

// Unsubscribe stops delivery and closes C. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel(s)
		}
	})
}

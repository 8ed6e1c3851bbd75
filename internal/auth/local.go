package auth

import (
	"context"
	"sync"

	"github.com/chapool/web3connect/internal/util"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalProvider is an in-process identity provider for the CLI, the HTTP
// bridge and tests. It trusts whatever uid it is given.
type LocalProvider struct {
	mu      sync.Mutex
	user    *User
	subs    map[*Subscription]struct{}
	methods MethodSet
}

func NewLocalProvider(methods MethodSet) *LocalProvider {
	if methods == nil {
		methods, _ = ParseMethods(nil)
	}
	return &LocalProvider{
		subs:    map[*Subscription]struct{}{},
		methods: methods,
	}
}

func (p *LocalProvider) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := newSubscription(p.unsubscribe)
	p.subs[sub] = struct{}{}
	sub.publish(cloneUser(p.user))

	return sub
}

func (p *LocalProvider) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.subs[sub]; ok {
		delete(p.subs, sub)
		close(sub.ch)
	}
}

func (p *LocalProvider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()

	return cloneUser(p.user)
}

// SignIn signs in uid through method. Signing in the user that is already
// signed in does not notify subscribers.
func (p *LocalProvider) SignIn(ctx context.Context, uid string, method Method) (*User, error) {
	if uid == "" {
		return nil, errors.New("uid must not be empty")
	}
	if method == MethodAnonymous {
		return nil, errors.New("use SignInAnonymously for anonymous sessions")
	}
	if !p.methods.Allows(method) {
		return nil, errors.Errorf("auth method %q is not enabled", method)
	}

	return p.set(ctx, &User{UID: uid, Method: method}), nil
}

// SignInAnonymously starts an anonymous session with a random uid.
func (p *LocalProvider) SignInAnonymously(ctx context.Context) (*User, error) {
	if !p.methods.Allows(MethodAnonymous) {
		return nil, errors.New("anonymous sign-in is not enabled")
	}

	return p.set(ctx, &User{UID: uuid.New().String(), IsAnonymous: true, Method: MethodAnonymous}), nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.set(ctx, nil)
	return nil
}

func (p *LocalProvider) set(ctx context.Context, u *User) *User {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sameUser(p.user, u) {
		return cloneUser(p.user)
	}
	p.user = u

	log := util.LogFromContext(ctx)
	if u == nil {
		log.Debug().Msg("Identity signed out")
	} else {
		log.Debug().Str("uid", u.UID).Bool("anonymous", u.IsAnonymous).Msg("Identity changed")
	}

	for sub := range p.subs {
		sub.publish(cloneUser(u))
	}

	return cloneUser(u)
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

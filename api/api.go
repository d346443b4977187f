// Package api is the client-side surface of the forum: cached queries over
// the backend and the mutations that write to it.
package api

import (
	"agora/cache"
	"agora/httpclient"
	"agora/session"
)

// API ties the HTTP client, the session store and the query cache together.
// It is safe for concurrent use.
type API struct {
	client   *httpclient.Client
	session  *session.Store
	cache    *cache.Cache
	notifier Notifier
}

type Option func(*API)

func WithNotifier(n Notifier) Option {
	return func(a *API) { a.notifier = n }
}

// WithCache replaces the default cache, e.g. with one on a fake clock.
func WithCache(c *cache.Cache) Option {
	return func(a *API) { a.cache = c }
}

func New(client *httpclient.Client, store *session.Store, opts ...Option) *API {
	a := &API{
		client:   client,
		session:  store,
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = cache.New()
	}
	return a
}

func (a *API) Session() *session.Store { return a.session }

func (a *API) Cache() *cache.Cache { return a.cache }

func (a *API) navigate(path string) {
	a.client.Navigator().Navigate(path)
}

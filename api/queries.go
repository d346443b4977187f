package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"agora/cache"
	"agora/httpclient"
	"agora/models"
)

var (
	referencePolicy = cache.Policy{StaleTime: cache.Forever, GCTime: cache.Forever}
	postsPolicy     = cache.Policy{StaleTime: time.Minute, GCTime: 5 * time.Minute}
	commentsPolicy  = cache.Policy{StaleTime: 30 * time.Second, GCTime: 2 * time.Minute}
)

func CurrentUserKey() cache.Key { return cache.NewKey("currentUser") }

func ForumsKey() cache.Key { return cache.NewKey("forums") }

func UsersKey() cache.Key { return cache.NewKey("users") }

// ForumPostsKey is the prefix shared by every post query of one forum.
func ForumPostsKey(slug string) cache.Key { return cache.NewKey("posts", slug) }

func PostsKey(slug string, page, pageSize int) cache.Key {
	return cache.NewKey("posts", slug, page, pageSize)
}

func PostKey(slug string, number int) cache.Key { return cache.NewKey("posts", slug, number) }

func CommentsKey(slug string, number int) cache.Key { return cache.NewKey("comments", slug, number) }

func postsPath(slug string) string {
	return "/api/forums/" + url.PathEscape(slug) + "/posts"
}

func postPath(slug string, number int) string {
	return fmt.Sprintf("%s/%d", postsPath(slug), number)
}

func (a *API) currentUserQuery() cache.Query[*models.User] {
	return cache.Query[*models.User]{
		Key:    CurrentUserKey(),
		Policy: referencePolicy,
		Fetch: func(context.Context) (*models.User, error) {
			user, _ := a.session.User()
			return user, nil
		},
	}
}

// CurrentUser returns the signed-in user from the session store, or nil.
func (a *API) CurrentUser(ctx context.Context) (*models.User, error) {
	return cache.Fetch(ctx, a.cache, a.currentUserQuery())
}

func (a *API) forumsQuery() cache.Query[[]models.Forum] {
	return cache.Query[[]models.Forum]{
		Key:    ForumsKey(),
		Policy: referencePolicy,
		Fetch: func(ctx context.Context) ([]models.Forum, error) {
			var forums []models.Forum
			err := a.client.Get(ctx, "/api/forums", &forums)
			return forums, err
		},
	}
}

// Forums returns every forum. The slice is shared with the cache and must
// not be modified.
func (a *API) Forums(ctx context.Context) ([]models.Forum, error) {
	return cache.Fetch(ctx, a.cache, a.forumsQuery())
}

// Forum looks slug up in the cached forum list.
func (a *API) Forum(ctx context.Context, slug string) (*models.Forum, error) {
	forums, err := a.Forums(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forums {
		if forums[i].Slug == slug {
			forum := forums[i]
			return &forum, nil
		}
	}
	return nil, httpclient.NewError(httpclient.KindNotFound, "Forum not found")
}

func (a *API) postsQuery(slug string, page, pageSize int) cache.Query[models.Page[models.Post]] {
	return cache.Query[models.Page[models.Post]]{
		Key:    PostsKey(slug, page, pageSize),
		Policy: postsPolicy,
		Fetch: func(ctx context.Context) (models.Page[models.Post], error) {
			var out models.Page[models.Post]
			path := fmt.Sprintf("%s?page=%d&pageSize=%d", postsPath(slug), page, pageSize)
			err := a.client.Get(ctx, path, &out)
			return out, err
		},
	}
}

// Posts returns one page of a forum's posts, newest number first.
func (a *API) Posts(ctx context.Context, slug string, page, pageSize int) (models.Page[models.Post], error) {
	return cache.Fetch(ctx, a.cache, a.postsQuery(slug, page, pageSize))
}

func (a *API) postQuery(slug string, number int) cache.Query[models.Post] {
	return cache.Query[models.Post]{
		Key:    PostKey(slug, number),
		Policy: postsPolicy,
		Fetch: func(ctx context.Context) (models.Post, error) {
			var post models.Post
			err := a.client.Get(ctx, postPath(slug, number), &post)
			return post, err
		},
	}
}

func (a *API) Post(ctx context.Context, slug string, number int) (models.Post, error) {
	return cache.Fetch(ctx, a.cache, a.postQuery(slug, number))
}

func (a *API) usersQuery() cache.Query[[]models.User] {
	return cache.Query[[]models.User]{
		Key:    UsersKey(),
		Policy: referencePolicy,
		Fetch: func(ctx context.Context) ([]models.User, error) {
			var users []models.User
			err := a.client.Get(ctx, "/api/users", &users)
			return users, err
		},
	}
}

func (a *API) Users(ctx context.Context) ([]models.User, error) {
	return cache.Fetch(ctx, a.cache, a.usersQuery())
}

// User looks id up in the cached user list.
func (a *API) User(ctx context.Context, id string) (*models.User, error) {
	users, err := a.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			user := users[i]
			return &user, nil
		}
	}
	return nil, httpclient.NewError(httpclient.KindNotFound, "User not found")
}

func (a *API) commentsQuery(slug string, number int) cache.Query[[]models.Comment] {
	return cache.Query[[]models.Comment]{
		Key:    CommentsKey(slug, number),
		Policy: commentsPolicy,
		Fetch: func(ctx context.Context) ([]models.Comment, error) {
			var comments []models.Comment
			err := a.client.Get(ctx, postPath(slug, number)+"/comments", &comments)
			return comments, err
		},
	}
}

// Comments returns a post's comments, newest first.
func (a *API) Comments(ctx context.Context, slug string, number int) ([]models.Comment, error) {
	return cache.Fetch(ctx, a.cache, a.commentsQuery(slug, number))
}

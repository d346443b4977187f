package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"agora/cache"
	"agora/httpclient"
	"agora/models"
)

// HomePath is where the user lands after signing in or creating a forum.
const HomePath = "/"

var forumSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Login signs in and stores the session. Every cached query is marked stale
// since a new user may see different data.
func (a *API) Login(ctx context.Context, username, password string) (*models.AuthData, error) {
	var auth models.AuthData
	err := a.client.Post(ctx, "/api/auth/login", models.LoginRequest{Username: username, Password: password}, &auth)
	if err != nil {
		if httpclient.KindOf(err) == httpclient.KindUnauthorized {
			return nil, &httpclient.Error{
				Kind:    httpclient.KindUnauthorized,
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
				Err:     err,
			}
		}
		return nil, err
	}

	if err := a.session.SetSession(auth.User, auth.AuthToken); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.cache.Invalidate(cache.Key{})
	user := auth.User
	cache.Prime(a.cache, a.currentUserQuery(), &user)
	a.navigate(HomePath)
	return &auth, nil
}

// Logout ends the session on the server and then locally. The local half
// always happens; a failed server call is only logged.
func (a *API) Logout(ctx context.Context) error {
	if _, ok := a.session.Token(); ok {
		if err := a.client.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
			log.Printf("server logout failed: %v", err)
		}
	}

	err := a.session.ClearSession()
	a.cache.Clear()
	if a.client.Navigator().CurrentPath() != httpclient.LoginPath {
		a.navigate(httpclient.LoginPath)
	}
	return err
}

// ValidateForum applies the forum form rules, trimming req in place.
func ValidateForum(req *models.CreateForumRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)

	title := utf8.RuneCountInString(req.Title)
	slug := utf8.RuneCountInString(req.Slug)
	desc := utf8.RuneCountInString(req.Description)

	var msg string
	switch {
	case title < 3:
		msg = "Title must be at least 3 characters"
	case title > 100:
		msg = "Title must be at most 100 characters"
	case slug < 3:
		msg = "Slug must be at least 3 characters"
	case slug > 50:
		msg = "Slug must be at most 50 characters"
	case !forumSlugPattern.MatchString(req.Slug):
		msg = "Slug can only contain lowercase letters, numbers, and hyphens"
	case desc < 10:
		msg = "Description must be at least 10 characters"
	case desc > 500:
		msg = "Description must be at most 500 characters"
	case !req.Category.Valid():
		msg = "Category must be one of Technology, Science, Art"
	}
	if msg != "" {
		return httpclient.NewError(httpclient.KindValidation, msg)
	}
	return nil
}

func (a *API) CreateForum(ctx context.Context, req models.CreateForumRequest) (*models.Forum, error) {
	if err := ValidateForum(&req); err != nil {
		return nil, err
	}

	var forum models.Forum
	if err := a.client.Post(ctx, "/api/forums", req, &forum); err != nil {
		a.notifier.Error("Failed to create forum. Please try again.")
		return nil, err
	}

	a.cache.Invalidate(ForumsKey())
	a.notifier.Success(fmt.Sprintf("Forum \"%s\" created successfully!", forum.Title))
	a.navigate(HomePath)
	return &forum, nil
}

// ParseTags splits a comma separated tag field, dropping blanks.
func ParseTags(field string) []string {
	tags := []string{}
	for _, tag := range strings.Split(field, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (a *API) CreatePost(ctx context.Context, slug string, req models.CreatePostRequest) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" {
		return nil, httpclient.NewError(httpclient.KindValidation, "Title is required")
	}
	if req.Content == "" {
		return nil, httpclient.NewError(httpclient.KindValidation, "Content is required")
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var post models.Post
	if err := a.client.Post(ctx, postsPath(slug), req, &post); err != nil {
		return nil, err
	}

	a.cache.Invalidate(ForumPostsKey(slug))
	cache.Prime(a.cache, a.postQuery(slug, post.Number), post)
	a.notifier.Success("Post created successfully!")
	a.navigate(fmt.Sprintf("/forums/%s/%d", slug, post.Number))
	return &post, nil
}

func (a *API) CreateComment(ctx context.Context, slug string, number int, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, httpclient.NewError(httpclient.KindValidation, "Comment cannot be empty")
	}

	var comment models.Comment
	path := postPath(slug, number) + "/comments"
	if err := a.client.Post(ctx, path, models.CreateCommentRequest{Content: content}, &comment); err != nil {
		return nil, err
	}

	a.cache.Invalidate(CommentsKey(slug, number))
	return &comment, nil
}

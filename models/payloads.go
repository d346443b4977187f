package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthData is the login response and the shape of a client session.
type AuthData struct {
	AuthToken string `json:"authToken"`
	User      User   `json:"user"`
}

type CreateForumRequest struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// TotalPages returns ceil(count / size), or 0 when size is not positive.
func TotalPages(count int64, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(size) - 1) / int64(size))
}

// GroupByCategory buckets forums by category, keeping their input order.
func GroupByCategory(forums []Forum) map[Category][]Forum {
	groups := make(map[Category][]Forum, len(Categories))
	for _, f := range forums {
		groups[f.Category] = append(groups[f.Category], f)
	}
	return groups
}

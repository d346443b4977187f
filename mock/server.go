package mock

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"agora/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ServerModule serves the forum REST API from a gorm database. It stands in
// for the real backend during development and in tests.
type ServerModule struct {
	db *gorm.DB
	// mu serializes writes that read-then-insert (slug check, post numbering).
	mu sync.Mutex
}

func NewServerModule(db *gorm.DB) *ServerModule {
	return &ServerModule{db: db}
}

func (m *ServerModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/login", m.login)
	router.POST("/api/auth/logout", m.logout)

	apiGroup := router.Group("/api")
	apiGroup.Use(m.requireAuth)
	{
		apiGroup.GET("/forums", m.listForums)
		apiGroup.POST("/forums", m.createForum)
		apiGroup.GET("/forums/:slug/posts", m.listPosts)
		apiGroup.POST("/forums/:slug/posts", m.createPost)
		apiGroup.GET("/forums/:slug/posts/:number", m.getPost)
		apiGroup.GET("/forums/:slug/posts/:number/comments", m.listComments)
		apiGroup.POST("/forums/:slug/posts/:number/comments", m.createComment)
		apiGroup.GET("/users", m.listUsers)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})
}

// NewEngine returns a gin engine serving the API, with middleware applied
// before the routes.
func NewEngine(db *gorm.DB, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)
	NewServerModule(db).RegisterRoutes(router)
	return router
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func (m *ServerModule) listForums(c *gin.Context) {
	var forums []models.Forum
	if err := m.db.Order("rowid").Find(&forums).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load forums")
		return
	}
	if forums == nil {
		forums = []models.Forum{}
	}
	c.JSON(http.StatusOK, forums)
}

func validateForum(req *models.CreateForumRequest) string {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)

	switch {
	case req.Title == "":
		return "Title is required"
	case req.Slug == "":
		return "Slug is required"
	case !slugPattern.MatchString(req.Slug):
		return "Slug may only contain lowercase letters, numbers and hyphens"
	case !req.Category.Valid():
		return "Category must be one of Technology, Science, Art"
	}
	return ""
}

func (m *ServerModule) createForum(c *gin.Context) {
	var req models.CreateForumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateForum(&req); msg != "" {
		respondError(c, http.StatusUnprocessableEntity, msg)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var existing int64
	if err := m.db.Model(&models.Forum{}).Where("slug = ?", req.Slug).Count(&existing).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create forum")
		return
	}
	if existing > 0 {
		respondError(c, http.StatusBadRequest, "Forum slug already exists")
		return
	}

	forum := models.Forum{
		ID:          uuid.NewString(),
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := m.db.Create(&forum).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create forum")
		return
	}

	c.JSON(http.StatusCreated, forum)
}

func (m *ServerModule) findForum(c *gin.Context) (*models.Forum, bool) {
	var forum models.Forum
	if err := m.db.Where("slug = ?", c.Param("slug")).First(&forum).Error; err != nil {
		respondError(c, http.StatusNotFound, "Forum not found")
		return nil, false
	}
	return &forum, true
}

func (m *ServerModule) findPost(c *gin.Context) (*models.Post, bool) {
	forum, ok := m.findForum(c)
	if !ok {
		return nil, false
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		respondError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}

	var post models.Post
	if err := m.db.Where("forum_id = ? AND number = ?", forum.ID, number).First(&post).Error; err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}
	return &post, true
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func (m *ServerModule) listPosts(c *gin.Context) {
	forum, ok := m.findForum(c)
	if !ok {
		return
	}

	page, ok := queryInt(c, "page", 1)
	if !ok || page < 1 {
		respondError(c, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, ok := queryInt(c, "pageSize", DefaultPageSize)
	if !ok || pageSize < 1 || pageSize > MaxPageSize {
		respondError(c, http.StatusBadRequest, "pageSize must be between 1 and 100")
		return
	}

	var total int64
	if err := m.db.Model(&models.Post{}).Where("forum_id = ?", forum.ID).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load posts")
		return
	}

	totalPages := models.TotalPages(total, pageSize)
	posts := make([]models.Post, 0, pageSize)
	if page > totalPages {
		c.JSON(http.StatusOK, models.Page[models.Post]{
			Items:      posts,
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		})
		return
	}

	if err := m.db.Where("forum_id = ?", forum.ID).
		Order("number DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load posts")
		return
	}

	c.JSON(http.StatusOK, models.Page[models.Post]{
		Items:      posts,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func (m *ServerModule) getPost(c *gin.Context) {
	post, ok := m.findPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

func (m *ServerModule) createPost(c *gin.Context) {
	forum, ok := m.findForum(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" {
		respondError(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	if req.Content == "" {
		respondError(c, http.StatusUnprocessableEntity, "Content is required")
		return
	}

	post := models.Post{
		ID:        uuid.NewString(),
		ForumID:   forum.ID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      cleanTags(req.Tags),
		AuthorID:  currentUser(c).ID,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&models.Post{}).
			Where("forum_id = ?", forum.ID).
			Select("COALESCE(MAX(number), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		post.Number = last + 1
		return tx.Create(&post).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (m *ServerModule) listComments(c *gin.Context) {
	post, ok := m.findPost(c)
	if !ok {
		return
	}

	comments := make([]models.Comment, 0)
	if err := m.db.Where("post_id = ?", post.ID).Order("created_at DESC").Find(&comments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (m *ServerModule) createComment(c *gin.Context) {
	post, ok := m.findPost(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, http.StatusUnprocessableEntity, "Content is required")
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		Content:   content,
		AuthorID:  currentUser(c).ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.Create(&comment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (m *ServerModule) listUsers(c *gin.Context) {
	users := make([]models.User, 0)
	if err := m.db.Order("username").Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load users")
		return
	}
	c.JSON(http.StatusOK, users)
}

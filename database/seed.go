package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agora/models"
)

// DefaultForumSlug is the forum that receives the generated posts.
const DefaultForumSlug = "web-development"

// SeedPostCount is the number of posts generated in DefaultForumSlug.
const SeedPostCount = 120

var fixtureNamespace = uuid.MustParse("6f0c1b8e-2f4a-4c1e-9a57-3b1f0d9e7c21")

// FixtureID derives a stable UUID for a named fixture record.
func FixtureID(name string) string {
	return uuid.NewSHA1(fixtureNamespace, []byte(name)).String()
}

type seedUser struct {
	username string
	password string
	role     models.Role
}

var seedUsers = []seedUser{
	{"admin", "admin", models.RoleAdmin},
	{"user1", "user1", models.RoleUser},
	{"alice", "alice", models.RoleUser},
	{"bob", "bob", models.RoleUser},
}

var seedForums = []models.Forum{
	{ID: FixtureID("tech-web"), Slug: "web-development", Title: "Web Development", Description: "Discuss modern web technologies, frameworks, and best practices", Category: models.CategoryTechnology},
	{ID: FixtureID("tech-ai"), Slug: "artificial-intelligence", Title: "Artificial Intelligence & ML", Description: "Machine learning, neural networks, and AI applications", Category: models.CategoryTechnology},
	{ID: FixtureID("tech-mobile"), Slug: "mobile-development", Title: "Mobile Development", Description: "iOS, Android, and cross-platform mobile app development", Category: models.CategoryTechnology},
	{ID: FixtureID("sci-physics"), Slug: "physics", Title: "Physics & Astronomy", Description: "From quantum mechanics to cosmology", Category: models.CategoryScience},
	{ID: FixtureID("sci-bio"), Slug: "biology", Title: "Biology & Life Sciences", Description: "Genetics, ecology, evolution, and more", Category: models.CategoryScience},
	{ID: FixtureID("sci-chem"), Slug: "chemistry", Title: "Chemistry", Description: "Organic, inorganic, and physical chemistry discussions", Category: models.CategoryScience},
	{ID: FixtureID("art-digital"), Slug: "digital-art", Title: "Digital Art & Design", Description: "Digital illustration, 3D modeling, and graphic design", Category: models.CategoryArt},
	{ID: FixtureID("art-trad"), Slug: "traditional-art", Title: "Traditional Art", Description: "Painting, drawing, sculpture, and classical techniques", Category: models.CategoryArt},
	{ID: FixtureID("art-photo"), Slug: "photography", Title: "Photography", Description: "Camera techniques, composition, and photo editing", Category: models.CategoryArt},
}

type seedTopic struct {
	title   string
	content string
	tags    []string
}

var seedTopics = []seedTopic{
	{"Building a REST API with Go", "Routing, middleware and error handling for a JSON API. We also look at **authentication** with bearer tokens and wiring a database.", []string{"go", "api", "backend", "rest"}},
	{"React Hooks Best Practices", "Patterns that keep components small: `useState`, `useEffect` and custom hooks, plus the pitfalls that show up in production.", []string{"react", "hooks", "frontend", "javascript"}},
	{"Understanding TypeScript Generics", "Generic functions, interfaces and classes, and when a generic makes an API easier to use instead of harder.", []string{"typescript", "generics", "types", "javascript"}},
	{"CSS Grid vs Flexbox", "Grid handles two-dimensional layouts, Flexbox one-dimensional ones. Real examples of picking the right tool.", []string{"css", "grid", "flexbox", "layout"}},
	{"Optimizing Web Performance", "Lazy loading, code splitting, image optimization and caching, measured with Core Web Vitals.", []string{"performance", "optimization", "web", "metrics"}},
	{"Introduction to Docker", "Containers, images, a first Dockerfile and Compose for multi-service development.", []string{"docker", "devops", "containers", "deployment"}},
	{"Testing JavaScript with Jest", "Unit, integration and snapshot tests with built-in assertions, mocks and coverage.", []string{"testing", "jest", "javascript", "tdd"}},
	{"GraphQL Fundamentals", "Schemas, resolvers, queries and mutations, and how they change data fetching.", []string{"graphql", "api", "backend", "query"}},
	{"Modern Authentication Strategies", "Sessions, JWT and OAuth 2.0 compared, with refresh tokens and CSRF protection.", []string{"authentication", "security", "jwt", "oauth"}},
	{"Database Design Patterns", "Normalization, indexing, soft deletes and audit trails for SQL and NoSQL stores.", []string{"database", "sql", "design", "patterns"}},
	{"Vue 3 Composition API", "Reactive refs, computed properties and lifecycle hooks in the composition style.", []string{"vue", "composition-api", "frontend", "javascript"}},
	{"Webpack Configuration Deep Dive", "Loaders, plugins, code splitting and production builds.", []string{"webpack", "bundling", "build", "javascript"}},
	{"Responsive Design Principles", "Fluid grids, flexible images, media queries and container queries, mobile first.", []string{"responsive", "css", "mobile", "design"}},
	{"Server-Side Rendering with Next.js", "Static generation, server rendering and incremental regeneration for a fast blog.", []string{"nextjs", "ssr", "react", "performance"}},
	{"WebSocket Real-Time Communication", "Chat, live notifications and collaborative features over a persistent connection.", []string{"websocket", "realtime", "socketio", "communication"}},
	{"Progressive Web Apps", "Service workers, manifests and offline support for an installable web app.", []string{"pwa", "serviceworker", "offline", "mobile"}},
	{"CI/CD Pipeline Setup", "Automated testing, building and deployment with hosted pipelines.", []string{"cicd", "automation", "deployment", "devops"}},
	{"Microservices Architecture", "Service discovery, gateways and inter-service communication, and when not to split.", []string{"microservices", "architecture", "scalability", "backend"}},
	{"State Management with Redux Toolkit", "Slices, thunks and RTK Query for predictable application state.", []string{"redux", "state", "react", "toolkit"}},
	{"Web Accessibility Guidelines", "WCAG, ARIA attributes and tooling for an accessible site.", []string{"accessibility", "a11y", "wcag", "inclusive"}},
	{"Kubernetes for Developers", "Pods, services, deployments and ingress, with scaling and rolling updates.", []string{"kubernetes", "k8s", "containers", "orchestration"}},
	{"Svelte: The Compile-Time Framework", "Reactive declarations, stores and animations compiled to plain JavaScript.", []string{"svelte", "framework", "frontend", "compiler"}},
	{"API Rate Limiting Strategies", "Token bucket, sliding window and distributed limiters as middleware.", []string{"api", "ratelimit", "security", "backend"}},
	{"CSS-in-JS Solutions Compared", "Styled components, Emotion and CSS Modules and their runtime cost.", []string{"css", "styled-components", "emotion", "styling"}},
	{"Error Handling Best Practices", "Error boundaries, typed errors and centralized reporting.", []string{"errors", "exception", "debugging", "bestpractices"}},
	{"Web Security Fundamentals", "XSS, CSRF and injection attacks, security headers and Content Security Policy.", []string{"security", "xss", "csrf", "vulnerabilities"}},
	{"Monorepo Management", "Sharing code across packages with versioning and publishing workflows.", []string{"monorepo", "lerna", "packages", "management"}},
	{"Browser DevTools Mastery", "The network panel, the performance profiler and the memory analyzer.", []string{"devtools", "debugging", "browser", "performance"}},
	{"Jamstack Architecture", "Static site generators, headless CMSs and serverless functions.", []string{"jamstack", "static", "serverless", "architecture"}},
	{"WebAssembly Introduction", "Compiling native code to the browser and where it pays off.", []string{"webassembly", "wasm", "performance", "native"}},
}

type seedComment struct {
	post    int
	author  string
	content string
	age     time.Duration
}

var seedComments = []seedComment{
	{1, "bob", "Moving our handlers behind a single middleware chain cut a lot of duplication.", 12 * time.Hour},
	{1, "user1", "How do you version the API once clients depend on it?", 19 * time.Hour},
	{2, "alice", "Custom hooks made our data fetching code testable again.", 60 * time.Hour},
	{2, "admin", "Watch out for stale closures inside effects.", 65 * time.Hour},
	{3, "alice", "Constraints on generics were the missing piece for me.", 100 * time.Hour},
	{3, "user1", "Do generics slow down type checking on large projects?", 108 * time.Hour},
	{3, "admin", "Inference gets you most of the way without explicit parameters.", 115 * time.Hour},
	{4, "bob", "Grid for the page, Flexbox for the components. Works every time.", 36 * time.Hour},
	{5, "alice", "Image optimization alone halved our largest contentful paint.", 80 * time.Hour},
	{5, "bob", "What budget do you set for JavaScript per route?", 86 * time.Hour},
	{6, "alice", "Compose files made onboarding new developers trivial.", 154 * time.Hour},
	{6, "user1", "Multi-stage builds shrank our images a lot.", 161 * time.Hour},
}

// Seed loads the fixture users, forums, posts and comments. It does nothing
// when users already exist.
func Seed(db *gorm.DB, passwordCost int) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding fixture data...")
	now := time.Now().UTC().Truncate(time.Second)

	return db.Transaction(func(tx *gorm.DB) error {
		userIDs := make([]string, 0, len(seedUsers))
		for _, su := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), passwordCost)
			if err != nil {
				return err
			}
			user := models.User{
				ID:           FixtureID(su.username),
				Username:     su.username,
				PasswordHash: string(hash),
				Role:         su.role,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			userIDs = append(userIDs, user.ID)
		}

		forums := make([]models.Forum, len(seedForums))
		copy(forums, seedForums)
		if err := tx.Create(&forums).Error; err != nil {
			return err
		}

		posts := make([]models.Post, 0, SeedPostCount)
		for i := 1; i <= SeedPostCount; i++ {
			topic := seedTopics[(i-1)%len(seedTopics)]
			part := (i-1)/len(seedTopics) + 1

			title, content := topic.title, topic.content
			if part > 1 {
				title = fmt.Sprintf("%s - Part %d", topic.title, part)
				content = fmt.Sprintf("%s In part %d we go deeper into advanced concepts and real-world applications.", topic.content, part)
			}

			created := now.AddDate(0, 0, -(60 - i/2))
			post := models.Post{
				ID:        FixtureID(fmt.Sprintf("post-%d", i)),
				ForumID:   FixtureID("tech-web"),
				Number:    i,
				Title:     title,
				Content:   content,
				Tags:      append([]string(nil), topic.tags...),
				AuthorID:  userIDs[i%len(userIDs)],
				CreatedAt: created,
			}
			if i%3 == 0 {
				updated := created.AddDate(0, 0, 1)
				post.UpdatedAt = &updated
			}
			posts = append(posts, post)
		}
		if err := tx.CreateInBatches(&posts, 50).Error; err != nil {
			return err
		}

		comments := make([]models.Comment, 0, len(seedComments))
		for i, sc := range seedComments {
			comments = append(comments, models.Comment{
				ID:        FixtureID(fmt.Sprintf("comment-%d", i+1)),
				PostID:    FixtureID(fmt.Sprintf("post-%d", sc.post)),
				Content:   sc.content,
				AuthorID:  FixtureID(sc.author),
				CreatedAt: now.Add(-sc.age),
			})
		}
		if err := tx.Create(&comments).Error; err != nil {
			return err
		}

		log.Printf("Seeded %d users, %d forums, %d posts, %d comments", len(userIDs), len(forums), len(posts), len(comments))
		return nil
	})
}

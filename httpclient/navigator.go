package httpclient

import "sync"

// LoginPath is the view an expired session is sent back to.
const LoginPath = "/login"

// Navigator is the client's notion of "where the user is".
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// MemoryNavigator records the current path and the history of navigations.
type MemoryNavigator struct {
	mu      sync.Mutex
	path    string
	history []string
}

func NewMemoryNavigator(path string) *MemoryNavigator {
	return &MemoryNavigator{path: path}
}

func (n *MemoryNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *MemoryNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.history = append(n.history, path)
}

func (n *MemoryNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

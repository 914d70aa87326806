package cli

import (
	"fmt"
	"io"
	"sync"
)

// routeTracker is the CLI's Navigator: it remembers the current route and
// announces transitions, standing in for the web app's router.
type routeTracker struct {
	mu      sync.Mutex
	w       io.Writer
	current string
}

func newRouteTracker(w io.Writer) *routeTracker {
	return &routeTracker{w: w, current: "/"}
}

func (r *routeTracker) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == path {
		return
	}
	r.current = path
	fmt.Fprintf(r.w, "-> %s\n", path)
}

func (r *routeTracker) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

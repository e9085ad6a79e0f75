package event

import "sync"

// SaveGuard allows at most one in-flight trip save per key.
// A second caller is turned away instead of queued.
type SaveGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSaveGuard() *SaveGuard {
	return &SaveGuard{inFlight: make(map[string]struct{})}
}

// TryAcquire returns a release func and true when key was free.
func (g *SaveGuard) TryAcquire(key string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, false
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}

func saveKey(userID, eventID string) string {
	return userID + "|" + eventID
}

package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans step diffs out to SSE subscribers, per episode.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // EpisodeID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for the episode. The returned func unregisters
// and closes it.
func (sm *StreamManager) Subscribe(episodeID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[episodeID]; !ok {
		sm.subscribers[episodeID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[episodeID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[episodeID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, episodeID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the episode without blocking.
func (sm *StreamManager) Broadcast(episodeID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[episodeID] {
		select {
		case ch <- msg:
		default:
			// Slow client
			slog.Warn("SSE: Client buffer full, dropping message", "episode_id", episodeID)
		}
	}
}

// Subscribers returns the number of live subscriptions for the episode.
func (sm *StreamManager) Subscribers(episodeID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[episodeID])
}

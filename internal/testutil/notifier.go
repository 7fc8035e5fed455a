package testutil

import (
	"sync"

	"github.com/quizhaus/quizhaus/internal/model"
)

// BroadcastRecord is one event fanned out to a lobby
type BroadcastRecord struct {
	LobbyID model.LobbyID
	Event   model.Event
}

// DirectRecord is one event sent to a single player
type DirectRecord struct {
	PlayerID model.PlayerID
	Event    model.Event
}

// RecordingNotifier captures every event the controllers emit so tests
// can assert on ordering and payloads
type RecordingNotifier struct {
	mu         sync.Mutex
	Broadcasts []BroadcastRecord
	Directs    []DirectRecord
}

// NewRecordingNotifier creates a new RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Broadcast records a lobby-wide event
func (n *RecordingNotifier) Broadcast(lobbyID model.LobbyID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Broadcasts = append(n.Broadcasts, BroadcastRecord{LobbyID: lobbyID, Event: event})
}

// SendTo records a single-player event
func (n *RecordingNotifier) SendTo(playerID model.PlayerID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Directs = append(n.Directs, DirectRecord{PlayerID: playerID, Event: event})
}

// BroadcastsOfType returns all recorded broadcasts with the given type,
// in emission order
func (n *RecordingNotifier) BroadcastsOfType(t model.EventType) []BroadcastRecord {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []BroadcastRecord
	for _, record := range n.Broadcasts {
		if record.Event.Type == t {
			out = append(out, record)
		}
	}
	return out
}

// DirectsTo returns all recorded direct events for the given player
func (n *RecordingNotifier) DirectsTo(playerID model.PlayerID) []DirectRecord {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []DirectRecord
	for _, record := range n.Directs {
		if record.PlayerID == playerID {
			out = append(out, record)
		}
	}
	return out
}

// LastBroadcastOfType returns the most recent broadcast of the given
// type, or nil
func (n *RecordingNotifier) LastBroadcastOfType(t model.EventType) *BroadcastRecord {
	records := n.BroadcastsOfType(t)
	if len(records) == 0 {
		return nil
	}
	return &records[len(records)-1]
}

// Reset clears all recorded events
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Broadcasts = nil
	n.Directs = nil
}

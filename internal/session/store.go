// Package session keeps per-user bot preferences in memory. Nothing is
// persisted; a restart resets every chat to the defaults.
package session

import (
	"sync"
	"time"

	"studio-space/internal/director"
	"studio-space/internal/storyboard"
)

// Prefs are the knobs a chat can set between generations.
type Prefs struct {
	AdTypes     []director.AdType
	Styles      []director.Style
	Model       director.Model
	AspectRatio director.AspectRatio
	Duration    int
	Sliders     director.Sliders

	StudioStyle   string
	SceneCount    int
	SceneDuration int

	Language string
}

func DefaultPrefs() Prefs {
	return Prefs{
		AdTypes:       []director.AdType{director.AdTypeCinematic},
		Model:         director.ModelVeo3,
		AspectRatio:   director.RatioLandscape,
		Duration:      8,
		Sliders:       director.Sliders{Creativity: 50, Realism: 50, Technical: 50},
		StudioStyle:   storyboard.StudioStyles()[0],
		SceneCount:    5,
		SceneDuration: 5,
	}
}

type Session struct {
	UserID   int64
	Username string
	Prefs    Prefs

	// AwaitingIdea marks that the next plain text message is the story
	// idea for /story.
	AwaitingIdea bool

	// Brief wizard state.
	Menu            string
	MessageID       int
	LastPhotoFileID string
	AwaitingPhoto   bool

	LastActivity time.Time
}

type Options struct{}

type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore(Options) *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Snapshot returns a copy of the user's session, creating it on first use.
func (s *Store) Snapshot(userID int64, username string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = time.Now()
	return *sess
}

// Update applies fn to the user's session under the lock and returns the
// resulting snapshot.
func (s *Store) Update(userID int64, username string, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = time.Now()
	fn(sess)
	return *sess
}

// Clear resets the user's preferences to the defaults.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.Prefs = DefaultPrefs()
		sess.AwaitingIdea = false
		sess.Menu = ""
		sess.AwaitingPhoto = false
		sess.LastActivity = time.Now()
	}
}

func (s *Store) getOrCreateLocked(userID int64, username string) *Session {
	if sess, ok := s.sessions[userID]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		UserID:       userID,
		Username:     username,
		Prefs:        DefaultPrefs(),
		LastActivity: time.Now(),
	}
	s.sessions[userID] = sess
	return sess
}

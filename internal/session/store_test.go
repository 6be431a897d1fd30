package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-space/internal/director"
)

func TestSnapshotCreatesWithDefaults(t *testing.T) {
	s := NewStore(Options{})

	sess := s.Snapshot(42, "ava")
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, "ava", sess.Username)
	assert.Equal(t, DefaultPrefs(), sess.Prefs)
	assert.False(t, sess.AwaitingIdea)
}

func TestUpdateReturnsResultingState(t *testing.T) {
	s := NewStore(Options{})

	updated := s.Update(42, "ava", func(sess *Session) {
		sess.Prefs.Model = director.ModelSora2
		sess.AwaitingIdea = true
	})
	assert.Equal(t, director.ModelSora2, updated.Prefs.Model)
	assert.True(t, updated.AwaitingIdea)

	// Mutation sticks across snapshots.
	assert.Equal(t, director.ModelSora2, s.Snapshot(42, "").Prefs.Model)
}

func TestUpdateIsolatesUsers(t *testing.T) {
	s := NewStore(Options{})

	s.Update(1, "a", func(sess *Session) { sess.Prefs.Duration = 30 })
	assert.Equal(t, 30, s.Snapshot(1, "a").Prefs.Duration)
	assert.Equal(t, DefaultPrefs().Duration, s.Snapshot(2, "b").Prefs.Duration)
}

func TestClearResetsPrefsAndWizardState(t *testing.T) {
	s := NewStore(Options{})

	s.Update(7, "kim", func(sess *Session) {
		sess.Prefs.Sliders.Creativity = 95
		sess.AwaitingIdea = true
		sess.Menu = "style"
		sess.LastPhotoFileID = "file-1"
	})
	s.Clear(7)

	sess := s.Snapshot(7, "kim")
	require.Equal(t, DefaultPrefs(), sess.Prefs)
	assert.False(t, sess.AwaitingIdea)
	assert.Empty(t, sess.Menu)
	// The saved photo survives a settings reset.
	assert.Equal(t, "file-1", sess.LastPhotoFileID)
}

func TestUsernameBackfill(t *testing.T) {
	s := NewStore(Options{})

	s.Snapshot(9, "")
	sess := s.Snapshot(9, "late-name")
	assert.Equal(t, "late-name", sess.Username)
}

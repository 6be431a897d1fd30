// Package history keeps the bounded project history: newest first,
// truncated on every insert, persisted as one JSON blob on disk.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"studio-space/internal/director"
	"studio-space/internal/storyboard"
)

const DefaultMaxItems = 20

// Result is the stored payload of one history item. Ad-creator results
// fill FinalPrompt/RichData/Idea; storyboard results fill the rest. The
// two shapes are told apart on restore by the presence of scenes.
type Result struct {
	FinalPrompt           string                 `json:"finalPrompt,omitempty"`
	RichData              map[string]any         `json:"richData,omitempty"`
	Idea                  string                 `json:"idea,omitempty"`
	FullScript            string                 `json:"fullScript,omitempty"`
	BackgroundMusicPrompt string                 `json:"backgroundMusicPrompt,omitempty"`
	Characters            []storyboard.Character `json:"characters,omitempty"`
	Scenes                []storyboard.Scene     `json:"scenes,omitempty"`
	Config                *storyboard.Config     `json:"config,omitempty"`
}

// IsStoryboard reports which workflow produced this result.
func (r Result) IsStoryboard() bool {
	return len(r.Scenes) > 0
}

type Item struct {
	ID             string            `json:"id"`
	Timestamp      int64             `json:"timestamp"`
	Model          director.Model    `json:"model"`
	AdTypes        []director.AdType `json:"adType,omitempty"`
	Result         Result            `json:"result"`
	ImageThumbnail string            `json:"imageThumbnail,omitempty"`
}

type Options struct {
	Path     string
	MaxItems int
}

// Store owns the persisted list. Reads happen once at construction;
// every mutation rewrites the whole blob.
type Store struct {
	mu       sync.Mutex
	path     string
	maxItems int
	items    []Item
}

func NewStore(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("history path is empty")
	}
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	s := &Store{path: opts.Path, maxItems: maxItems}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Append inserts at the front and truncates to the bound. The item id is
// derived from the insert time when the caller left it empty.
func (s *Store) Append(item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if item.ID == "" {
		item.ID = fmt.Sprintf("%d", now.UnixNano())
	}
	if item.Timestamp == 0 {
		item.Timestamp = now.UnixMilli()
	}

	s.items = append([]Item{item}, s.items...)
	if len(s.items) > s.maxItems {
		s.items = s.items[:s.maxItems]
	}

	if err := s.saveLocked(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns a copy, newest first.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks an item up by id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Clear drops everything and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read history: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var items []Item
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	s.items = items
	return nil
}

func (s *Store) saveLocked() error {
	b, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

package studio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-space/internal/director"
	"studio-space/internal/gemini"
	"studio-space/internal/history"
	"studio-space/internal/normalize"
	"studio-space/internal/storyboard"
	"studio-space/internal/ws"
)

type imageCall struct {
	Prompt string
	Ratio  string
}

type mockAI struct {
	mu              sync.Mutex
	completeText    string
	completeErr     error
	completePrompts []string
	imageFn         func(call int, prompt, ratio string) (string, error)
	imageCalls      []imageCall
}

func (m *mockAI) Complete(_ context.Context, instructions string, _ []gemini.ImageInput, _ gemini.CompleteOptions) (string, error) {
	m.mu.Lock()
	m.completePrompts = append(m.completePrompts, instructions)
	text, err := m.completeText, m.completeErr
	m.mu.Unlock()
	return text, err
}

func (m *mockAI) GenerateImage(_ context.Context, prompt string, ratio string) (string, error) {
	m.mu.Lock()
	m.imageCalls = append(m.imageCalls, imageCall{Prompt: prompt, Ratio: ratio})
	call := len(m.imageCalls)
	fn := m.imageFn
	m.mu.Unlock()

	if fn != nil {
		return fn(call, prompt, ratio)
	}
	return "data:image/png;base64,ZmFrZQ==", nil
}

func (m *mockAI) imageCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.imageCalls)
}

func (m *mockAI) lastImageCall() imageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageCalls[len(m.imageCalls)-1]
}

func (m *mockAI) resetImageCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls = nil
}

type mockNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (m *mockNotifier) BroadcastEvent(evt ws.Event) {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
}

func (m *mockNotifier) snapshot() []ws.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ws.Event(nil), m.events...)
}

func boardJSON(characters, scenes int) string {
	var b strings.Builder
	b.WriteString(`{"fullScript":"narration","backgroundMusicPrompt":"piano","characters":[`)
	for i := 0; i < characters; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"Char %d","description":"d","visualPrompt":"portrait of char %d"}`, i+1, i+1, i+1)
	}
	b.WriteString(`],"scenes":[`)
	for i := 0; i < scenes; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"title":"Scene %d","visualPrompt":"frame %d","videoPrompt":"motion %d"}`, i+1, i+1, i+1, i+1)
	}
	b.WriteString(`]}`)
	return b.String()
}

func newTestService(t *testing.T, ai *mockAI, notifier Notifier) *Service {
	t.Helper()
	svc, err := New(Options{AI: ai, Notifier: notifier, MaxParallelImages: 2})
	require.NoError(t, err)
	return svc
}

func expandBoard(t *testing.T, svc *Service, ai *mockAI, characters, scenes int) storyboard.Board {
	t.Helper()
	ai.mu.Lock()
	ai.completeText = boardJSON(characters, scenes)
	ai.mu.Unlock()

	board, err := svc.ExpandStoryboard(context.Background(), "an idea", storyboard.Config{
		Style:         "Claymation",
		SceneCount:    scenes,
		SceneDuration: 5,
	}, "")
	require.NoError(t, err)

	// Wait until the background character fan-out has settled.
	if characters > 0 {
		require.Eventually(t, func() bool {
			b := svc.Board()
			for _, ch := range b.Characters {
				if ch.IsGeneratingImage || ch.ImageURL == "" {
					return false
				}
			}
			return true
		}, 2*time.Second, 10*time.Millisecond, "character fan-out did not finish")
	}
	return board
}

func TestExpandStoryboard(t *testing.T) {
	t.Run("parses and fans out character portraits", func(t *testing.T) {
		ai := &mockAI{}
		svc := newTestService(t, ai, nil)

		board := expandBoard(t, svc, ai, 2, 3)
		assert.Len(t, board.Characters, 2)
		assert.Len(t, board.Scenes, 3)

		assert.Equal(t, 2, ai.imageCallCount())
		for _, ch := range svc.Board().Characters {
			assert.NotEmpty(t, ch.ImageURL)
			assert.False(t, ch.IsGeneratingImage)
		}
	})

	t.Run("returned board is isolated from background mutation", func(t *testing.T) {
		ai := &mockAI{}
		svc := newTestService(t, ai, nil)

		// expandBoard waits until the fan-out has written every portrait
		// into the stored board.
		board := expandBoard(t, svc, ai, 2, 3)

		for _, ch := range board.Characters {
			assert.Empty(t, ch.ImageURL, "caller's copy must not see fan-out writes")
			assert.False(t, ch.IsGeneratingImage)
		}

		board.Characters[0].Name = "mutated"
		board.Scenes[0].Title = "mutated"
		stored := svc.Board()
		assert.Equal(t, "Char 1", stored.Characters[0].Name)
		assert.Equal(t, "Scene 1", stored.Scenes[0].Title)
	})

	t.Run("wrong scene count surfaces ErrIncomplete", func(t *testing.T) {
		ai := &mockAI{completeText: boardJSON(0, 4)}
		svc := newTestService(t, ai, nil)

		_, err := svc.ExpandStoryboard(context.Background(), "an idea", storyboard.Config{
			SceneCount: 5, SceneDuration: 5,
		}, "")
		assert.ErrorIs(t, err, storyboard.ErrIncomplete)
		assert.Nil(t, svc.Board())
	})

	t.Run("malformed response surfaces ErrMalformed", func(t *testing.T) {
		ai := &mockAI{completeText: "no json here"}
		svc := newTestService(t, ai, nil)

		_, err := svc.ExpandStoryboard(context.Background(), "an idea", storyboard.Config{
			SceneCount: 3, SceneDuration: 5,
		}, "")
		assert.ErrorIs(t, err, normalize.ErrMalformed)
	})
}

func TestRegeneratePerEntityIsolation(t *testing.T) {
	ai := &mockAI{}
	svc := newTestService(t, ai, nil)
	expandBoard(t, svc, ai, 2, 3)

	before := svc.Board()
	firstURL := before.Characters[1].ImageURL

	ai.resetImageCalls()
	ai.mu.Lock()
	ai.imageFn = func(int, string, string) (string, error) {
		return "data:image/png;base64,bmV3", nil
	}
	ai.mu.Unlock()

	require.NoError(t, svc.RegenerateCharacter(context.Background(), 1, nil))

	after := svc.Board()
	assert.Equal(t, "data:image/png;base64,bmV3", after.Characters[0].ImageURL)
	assert.Equal(t, firstURL, after.Characters[1].ImageURL, "sibling character must be untouched")
	assert.Equal(t, 1, ai.imageCallCount())
	assert.Contains(t, ai.lastImageCall().Prompt, "portrait of char 1")
}

func TestRegenerateFailurePreservesImage(t *testing.T) {
	ai := &mockAI{}
	notifier := &mockNotifier{}
	svc := newTestService(t, ai, notifier)
	expandBoard(t, svc, ai, 1, 3)

	oldURL := svc.Board().Characters[0].ImageURL
	require.NotEmpty(t, oldURL)

	ai.mu.Lock()
	ai.imageFn = func(int, string, string) (string, error) {
		return "", gemini.ErrRefused
	}
	ai.mu.Unlock()

	err := svc.RegenerateCharacter(context.Background(), 1, nil)
	assert.ErrorIs(t, err, gemini.ErrRefused)

	ch := svc.Board().Characters[0]
	assert.False(t, ch.IsGeneratingImage, "busy flag must clear on failure")
	assert.Equal(t, oldURL, ch.ImageURL, "failed regeneration must keep the previous image")

	events := notifier.snapshot()
	last := events[len(events)-1]
	assert.NotEmpty(t, last.Err)
	assert.Equal(t, KindCharacter, last.Kind)
	assert.Equal(t, 1, last.ID)
}

func TestRegenerateWithRatioChange(t *testing.T) {
	ai := &mockAI{}
	svc := newTestService(t, ai, nil)
	expandBoard(t, svc, ai, 0, 3)

	ai.resetImageCalls()
	ratio := director.RatioVertical
	require.NoError(t, svc.RegenerateScene(context.Background(), 2, &ratio))

	assert.Equal(t, 1, ai.imageCallCount(), "a ratio change triggers exactly one regeneration")
	assert.Equal(t, "9:16", ai.lastImageCall().Ratio)

	scene := svc.Board().Scenes[1]
	assert.Equal(t, director.RatioVertical, scene.AspectRatio)
	assert.False(t, scene.IsGeneratingImage)
}

func TestRegenerateStaleCompletionDiscarded(t *testing.T) {
	ai := &mockAI{}
	svc := newTestService(t, ai, nil)
	expandBoard(t, svc, ai, 0, 3)

	gate := make(chan struct{})
	ai.resetImageCalls()
	ai.mu.Lock()
	ai.imageFn = func(call int, _, _ string) (string, error) {
		if call == 1 {
			<-gate
			return "data:image/png;base64,b2xk", nil
		}
		return "data:image/png;base64,bmV3", nil
	}
	ai.mu.Unlock()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- svc.RegenerateScene(context.Background(), 1, nil)
	}()

	require.Eventually(t, func() bool {
		return ai.imageCallCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The second call supersedes the still-running first one.
	require.NoError(t, svc.RegenerateScene(context.Background(), 1, nil))
	assert.Equal(t, "data:image/png;base64,bmV3", svc.Board().Scenes[0].ImageURL)

	close(gate)
	require.NoError(t, <-firstDone)

	scene := svc.Board().Scenes[0]
	assert.Equal(t, "data:image/png;base64,bmV3", scene.ImageURL, "stale completion must not overwrite the newer image")
	assert.False(t, scene.IsGeneratingImage)
}

func TestRegenerateUnknownEntity(t *testing.T) {
	ai := &mockAI{}
	svc := newTestService(t, ai, nil)

	err := svc.RegenerateCharacter(context.Background(), 7, nil)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	expandBoard(t, svc, ai, 0, 3)
	err = svc.RegenerateScene(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	err = svc.Regenerate(context.Background(), "prop", 1, nil)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	assert.False(t, svc.HasEntity("scene", 99))
	assert.True(t, svc.HasEntity("scene", 1))
}

func TestGenerateAd(t *testing.T) {
	t.Run("parses the result and records history", func(t *testing.T) {
		ai := &mockAI{completeText: `{"finalPrompt":"the full prompt","idea":"short"}`}
		store, err := history.NewStore(history.Options{
			Path: filepath.Join(t.TempDir(), "history.json"),
		})
		require.NoError(t, err)

		svc, err := New(Options{AI: ai, History: store})
		require.NoError(t, err)

		result, err := svc.GenerateAd(context.Background(), director.Request{
			Model:   director.ModelVeo3,
			AdTypes: []director.AdType{director.AdTypeCinematic},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "the full prompt", result.FinalPrompt)

		items := store.List()
		require.Len(t, items, 1)
		assert.Equal(t, "the full prompt", items[0].Result.FinalPrompt)
		assert.Equal(t, director.ModelVeo3, items[0].Model)
	})

	t.Run("missing deliverable surfaces ErrNoPrompt", func(t *testing.T) {
		ai := &mockAI{completeText: `{"idea":"auxiliary only"}`}
		svc := newTestService(t, ai, nil)

		_, err := svc.GenerateAd(context.Background(), director.Request{}, nil)
		assert.ErrorIs(t, err, director.ErrNoPrompt)
	})

	t.Run("reuses the stored analysis", func(t *testing.T) {
		ai := &mockAI{completeText: "```json\n" + `{"productDescription":"walnut desk lamp","category":"Lighting"}` + "\n```"}
		svc := newTestService(t, ai, nil)

		analysis, err := svc.AnalyzeImage(context.Background(), gemini.ImageInput{DataBase64: "aW1n", MimeType: "image/png"})
		require.NoError(t, err)
		assert.Equal(t, "walnut desk lamp", analysis.ProductDescription)

		ai.mu.Lock()
		ai.completeText = `{"finalPrompt":"p"}`
		ai.mu.Unlock()

		_, err = svc.GenerateAd(context.Background(), director.Request{}, nil)
		require.NoError(t, err)

		ai.mu.Lock()
		lastPrompt := ai.completePrompts[len(ai.completePrompts)-1]
		ai.mu.Unlock()
		assert.Contains(t, lastPrompt, "walnut desk lamp")
	})
}

func TestEnhanceConcept(t *testing.T) {
	t.Run("returns trimmed model reply", func(t *testing.T) {
		ai := &mockAI{completeText: "  A lone lighthouse keeper bargains with the fog.  "}
		svc := newTestService(t, ai, nil)

		got, err := svc.EnhanceConcept(context.Background(), "lighthouse story")
		require.NoError(t, err)
		assert.Equal(t, "A lone lighthouse keeper bargains with the fog.", got)
	})

	t.Run("empty reply falls back to the original", func(t *testing.T) {
		ai := &mockAI{completeText: "   "}
		svc := newTestService(t, ai, nil)

		got, err := svc.EnhanceConcept(context.Background(), "lighthouse story")
		require.NoError(t, err)
		assert.Equal(t, "lighthouse story", got)
	})

	t.Run("empty concept is rejected", func(t *testing.T) {
		ai := &mockAI{}
		svc := newTestService(t, ai, nil)

		_, err := svc.EnhanceConcept(context.Background(), "  ")
		assert.Error(t, err)
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		ai := &mockAI{completeErr: errors.New("boom")}
		svc := newTestService(t, ai, nil)

		_, err := svc.EnhanceConcept(context.Background(), "idea")
		assert.Error(t, err)
	})
}

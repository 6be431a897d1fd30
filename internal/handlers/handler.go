// Package handlers routes Telegram updates into the studio workflows:
// product photos become master prompts, /story runs the storyboard
// expansion, and the /brief wizard edits per-user generation settings.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"studio-space/internal/director"
	"studio-space/internal/gemini"
	"studio-space/internal/history"
	"studio-space/internal/session"
	"studio-space/internal/storyboard"
	"studio-space/internal/studio"
	"studio-space/internal/telegram"
)

type Options struct {
	Telegram *telegram.Client
	Studio   *studio.Service
	Sessions *session.Store
	History  *history.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg       *telegram.Client
	studio   *studio.Service
	sessions *session.Store
	history  *history.Store
	logger   *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tg:       opts.Telegram,
		studio:   opts.Studio,
		sessions: opts.Sessions,
		history:  opts.History,
		logger:   logger,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, username, msg)
	}

	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, username, msg)
	}

	if msg.Text != "" {
		return h.handleText(ctx, chatID, userID, username, msg.Text)
	}

	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, userID int64, username string, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return h.tg.SendText(chatID,
			"🎬 Studio Space\n\n"+
				"Send a product photo and I'll write a master video-ad prompt for it.\n\n"+
				"Commands:\n"+
				"/brief - tune archetype, model, style and sliders\n"+
				"/story <idea> - expand an idea into a storyboard\n"+
				"/enhance <concept> - punch up a rough concept\n"+
				"/history - recent results\n"+
				"/clear - reset settings",
		)
	case "help":
		return h.tg.SendText(chatID,
			"🎬 Help\n\n"+
				"Photo → structured analysis + master prompt.\n"+
				"/brief → settings wizard for the next generation.\n"+
				"/story <idea> → script, cast, music and scene list.\n"+
				"/enhance <concept> → a more vivid one-paragraph brief.\n"+
				"/history → last results, /clear → reset settings.",
		)
	case "clear":
		h.sessions.Clear(userID)
		return h.tg.SendText(chatID, "✅ Settings reset to defaults.")
	case "brief":
		return h.startBriefWizard(chatID, userID, username)
	case "story":
		idea := strings.TrimSpace(msg.CommandArguments())
		if idea == "" {
			h.sessions.Update(userID, username, func(st *session.Session) { st.AwaitingIdea = true })
			return h.tg.SendText(chatID, "📝 Send your story idea as the next message.")
		}
		return h.expandStory(ctx, chatID, userID, username, idea)
	case "enhance":
		concept := strings.TrimSpace(msg.CommandArguments())
		if concept == "" {
			return h.tg.SendText(chatID, "❌ Usage: /enhance <concept>")
		}

		h.tg.SendTyping(chatID)
		enhanced, err := h.studio.EnhanceConcept(ctx, concept)
		if err != nil {
			h.logger.Error("enhance failed", "err", err)
			return h.tg.SendText(chatID, "❌ Could not enhance that concept. Try again.")
		}
		return h.tg.SendText(chatID, "✨ "+enhanced)
	case "history":
		return h.sendHistory(chatID)
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. Try /help.")
	}
}

func (h *Handler) handleText(ctx context.Context, chatID int64, userID int64, username string, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sess := h.sessions.Snapshot(userID, username)
	if sess.AwaitingIdea {
		h.sessions.Update(userID, username, func(st *session.Session) { st.AwaitingIdea = false })
		return h.expandStory(ctx, chatID, userID, username, text)
	}

	return h.tg.SendText(chatID, "Send a product photo, or use /story and /brief. /help shows everything.")
}

func (h *Handler) handlePhoto(ctx context.Context, chatID int64, userID int64, username string, msg *tgbotapi.Message) error {
	photo := msg.Photo[len(msg.Photo)-1]

	h.sessions.Update(userID, username, func(st *session.Session) {
		st.LastPhotoFileID = photo.FileID
		st.AwaitingPhoto = false
	})

	return h.generateFromPhoto(ctx, chatID, userID, username, photo.FileID)
}

func (h *Handler) generateFromPhoto(ctx context.Context, chatID int64, userID int64, username string, fileID string) error {
	h.tg.SendTyping(chatID)

	base64Data, mimeType, err := h.tg.DownloadFileBase64(ctx, fileID)
	if err != nil {
		h.logger.Error("photo download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not download the photo.")
	}

	image := gemini.ImageInput{DataBase64: base64Data, MimeType: mimeType}

	analysis, err := h.studio.AnalyzeImage(ctx, image)
	if err != nil {
		h.logger.Error("image analysis failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not analyze the photo. Try another one.")
	}

	_ = h.tg.SendText(chatID, fmt.Sprintf("🔍 %s\nCategory: %s\n\n✍️ Writing the master prompt...",
		analysis.ProductDescription, analysis.Category))
	h.tg.SendTyping(chatID)

	prefs := h.sessions.Snapshot(userID, username).Prefs
	result, err := h.studio.GenerateAd(ctx, director.Request{
		Analysis:    &analysis,
		AdTypes:     prefs.AdTypes,
		HybridMode:  len(prefs.AdTypes) > 1,
		Styles:      prefs.Styles,
		Model:       prefs.Model,
		AspectRatio: prefs.AspectRatio,
		Duration:    prefs.Duration,
		Sliders:     prefs.Sliders,
		Language:    prefs.Language,
	}, &image)
	if err != nil {
		h.logger.Error("ad generation failed", "err", err)
		return h.tg.SendText(chatID, "❌ Generation failed. Try again or adjust /brief.")
	}

	out := "🎯 Master prompt for " + string(prefs.Model) + ":\n\n" + result.FinalPrompt
	if result.Idea != "" {
		out += "\n\n💡 " + result.Idea
	}
	return h.tg.SendText(chatID, out)
}

func (h *Handler) expandStory(ctx context.Context, chatID int64, userID int64, username string, idea string) error {
	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, "🎬 Expanding your idea into a storyboard, hold on...")

	prefs := h.sessions.Snapshot(userID, username).Prefs
	board, err := h.studio.ExpandStoryboard(ctx, idea, storyboard.Config{
		Style:         prefs.StudioStyle,
		SceneCount:    prefs.SceneCount,
		SceneDuration: prefs.SceneDuration,
	}, prefs.Language)
	if err != nil {
		h.logger.Error("storyboard expansion failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not build the storyboard. Try rephrasing the idea.")
	}

	var b strings.Builder
	b.WriteString("🎬 Storyboard (" + board.Config.Style + ")\n\n")
	b.WriteString("📜 " + board.FullScript + "\n")
	if board.BackgroundMusicPrompt != "" {
		b.WriteString("\n🎵 " + board.BackgroundMusicPrompt + "\n")
	}
	if len(board.Characters) > 0 {
		b.WriteString("\n👥 Cast:\n")
		for _, ch := range board.Characters {
			b.WriteString(fmt.Sprintf("- %s: %s\n", ch.Name, ch.Description))
		}
	}
	b.WriteString("\n🎞 Scenes:\n")
	for _, sc := range board.Scenes {
		b.WriteString(fmt.Sprintf("%d) %s (%ds)\n%s\n", sc.ID, sc.Title, sc.Duration, sc.VisualPrompt))
	}

	return h.tg.SendText(chatID, b.String())
}

func (h *Handler) sendHistory(chatID int64) error {
	items := h.history.List()
	if len(items) == 0 {
		return h.tg.SendText(chatID, "🗂 History is empty.")
	}

	var b strings.Builder
	b.WriteString("🗂 Recent results:\n\n")
	for i, item := range items {
		if i >= 5 {
			break
		}
		if item.Result.IsStoryboard() {
			b.WriteString(fmt.Sprintf("%d) Storyboard, %d scenes\n", i+1, len(item.Result.Scenes)))
			continue
		}
		prompt := item.Result.FinalPrompt
		if len(prompt) > 120 {
			prompt = prompt[:120] + "…"
		}
		b.WriteString(fmt.Sprintf("%d) %s\n", i+1, prompt))
	}
	return h.tg.SendText(chatID, b.String())
}

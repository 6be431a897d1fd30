package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"studio-space/internal/director"
	"studio-space/internal/session"
)

const briefCallbackPrefix = "br"

func (h *Handler) startBriefWizard(chatID int64, userID int64, username string) error {
	st := h.sessions.Update(userID, username, func(st *session.Session) {
		st.Menu = "main"
		st.AwaitingIdea = false
	})

	msgID, err := h.tg.SendTextWithKeyboard(chatID, briefUIText(st), briefUIKeyboard(userID, st))
	if err != nil {
		return err
	}
	h.sessions.Update(userID, username, func(st *session.Session) { st.MessageID = msgID })
	return nil
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil {
		return nil
	}
	ownerID, action, args, ok := parseCallback(q.Data)
	if !ok {
		return nil
	}
	if ownerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This menu belongs to another user.", true)
		return nil
	}
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID
	username := q.From.UserName

	updated := h.sessions.Update(ownerID, username, func(st *session.Session) {
		st.MessageID = msgID

		switch action {
		case "menu":
			if len(args) >= 1 {
				st.Menu = args[0]
			}
		case "adtype":
			if len(args) >= 1 {
				toggleAdType(&st.Prefs, director.AdType(decodeArg(args[0])))
			}
			st.Menu = "adtype"
		case "model":
			if len(args) >= 1 {
				st.Prefs.Model = director.Model(decodeArg(args[0]))
			}
			st.Menu = "main"
		case "style":
			if len(args) >= 1 {
				toggleStyle(&st.Prefs, director.Style(decodeArg(args[0])))
			}
			st.Menu = "style"
		case "ratio":
			if len(args) >= 1 {
				st.Prefs.AspectRatio = director.AspectRatio(decodeArg(args[0]))
			}
			st.Menu = "main"
		case "duration":
			if len(args) >= 1 {
				if d, err := strconv.Atoi(args[0]); err == nil {
					st.Prefs.Duration = d
				}
			}
			st.Menu = "main"
		case "slider":
			if len(args) >= 1 {
				cycleSlider(&st.Prefs.Sliders, args[0])
			}
			st.Menu = "sliders"
		case "reset":
			st.Prefs = session.DefaultPrefs()
			st.Menu = "main"
		case "await_photo":
			st.AwaitingPhoto = true
			st.Menu = "main"
		case "close":
			st.AwaitingPhoto = false
			st.Menu = "main"
		}
	})

	switch action {
	case "generate":
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		if strings.TrimSpace(updated.LastPhotoFileID) == "" {
			h.sessions.Update(ownerID, username, func(st *session.Session) { st.AwaitingPhoto = true })
			_ = h.tg.SendText(chatID, "📷 Send a product photo first.")
		} else if err := h.generateFromPhoto(ctx, chatID, ownerID, username, updated.LastPhotoFileID); err != nil {
			return err
		}
	default:
		_ = h.tg.AnswerCallback(q.ID, "OK", false)
	}

	return h.renderBriefUI(chatID, ownerID, username, msgID)
}

func (h *Handler) renderBriefUI(chatID int64, userID int64, username string, messageID int) error {
	st := h.sessions.Snapshot(userID, username)
	if messageID == 0 {
		messageID = st.MessageID
	}

	text := briefUIText(st)
	kb := briefUIKeyboard(userID, st)

	if messageID != 0 {
		if err := h.tg.EditTextWithKeyboard(chatID, messageID, text, kb); err == nil {
			return nil
		}
	}

	msgID, err := h.tg.SendTextWithKeyboard(chatID, text, kb)
	if err != nil {
		return err
	}
	h.sessions.Update(userID, username, func(st *session.Session) { st.MessageID = msgID })
	return nil
}

func briefUIText(st session.Session) string {
	p := st.Prefs

	var b strings.Builder
	b.WriteString("🎛 Generation brief\n\n")
	b.WriteString("Archetypes: " + joinAdTypes(p.AdTypes) + "\n")
	b.WriteString("Model: " + string(p.Model) + "\n")
	if len(p.Styles) > 0 {
		b.WriteString("Styles: " + joinStyles(p.Styles) + "\n")
	}
	b.WriteString(fmt.Sprintf("Ratio: %s, Duration: %ds\n", director.RatioString(p.AspectRatio), p.Duration))
	b.WriteString(fmt.Sprintf("Sliders: creativity %d / realism %d / technical %d\n",
		p.Sliders.Creativity, p.Sliders.Realism, p.Sliders.Technical))

	if strings.TrimSpace(st.LastPhotoFileID) == "" {
		b.WriteString("Photo: (none)\n")
	} else {
		b.WriteString("Photo: saved ✅\n")
	}
	if st.AwaitingPhoto {
		b.WriteString("\n📷 Now send the product photo.\n")
	} else if strings.TrimSpace(st.LastPhotoFileID) != "" {
		b.WriteString("\n🎨 Press Generate, or send a new photo to replace the saved one.\n")
	}

	return strings.TrimSpace(b.String())
}

func briefUIKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	switch st.Menu {
	case "adtype":
		return adTypeKeyboard(ownerID, st)
	case "model":
		return modelKeyboard(ownerID, st)
	case "style":
		return styleKeyboard(ownerID, st)
	case "ratio":
		return ratioKeyboard(ownerID, st)
	case "sliders":
		return slidersKeyboard(ownerID, st)
	default:
		return mainKeyboard(ownerID, st)
	}
}

func mainKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("Archetypes", cb(ownerID, "menu", "adtype")),
			tgbotapi.NewInlineKeyboardButtonData("Model", cb(ownerID, "menu", "model")),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Styles", cb(ownerID, "menu", "style")),
			tgbotapi.NewInlineKeyboardButtonData("Ratio", cb(ownerID, "menu", "ratio")),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Sliders", cb(ownerID, "menu", "sliders")),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Duration (%ds)", st.Prefs.Duration), cb(ownerID, "menu", "duration")),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("📷 Photo", cb(ownerID, "await_photo")),
			tgbotapi.NewInlineKeyboardButtonData("🎨 Generate", cb(ownerID, "generate")),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Reset", cb(ownerID, "reset")),
			tgbotapi.NewInlineKeyboardButtonData("Close", cb(ownerID, "close")),
		},
	}

	if st.Menu == "duration" {
		var row []tgbotapi.InlineKeyboardButton
		for _, d := range director.VideoDurations() {
			label := fmt.Sprintf("%ds", d)
			if d == st.Prefs.Duration {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "duration", strconv.Itoa(d))))
			if len(row) == 4 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adTypeKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, t := range director.AdTypes() {
		label := string(t)
		if containsAdType(st.Prefs.AdTypes, t) {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "adtype", encodeArg(string(t)))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", "main")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func modelKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, m := range director.Models() {
		label := string(m)
		if m == st.Prefs.Model {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "model", encodeArg(string(m)))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", "main")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func styleKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, s := range director.Styles() {
		label := string(s)
		if containsStyle(st.Prefs.Styles, s) {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "style", encodeArg(string(s)))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", "main")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ratioKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, r := range director.AspectRatios() {
		if r == director.RatioCustom {
			continue
		}
		label := string(r)
		if r == st.Prefs.AspectRatio {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "ratio", encodeArg(string(r)))))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", "main")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func slidersKeyboard(ownerID int64, st session.Session) tgbotapi.InlineKeyboardMarkup {
	s := st.Prefs.Sliders
	return tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Creativity: %d", s.Creativity), cb(ownerID, "slider", "creativity")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Realism: %d", s.Realism), cb(ownerID, "slider", "realism")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Technical: %d", s.Technical), cb(ownerID, "slider", "technical")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", "main")),
		},
	)
}

// cycleSlider steps one slider through the low, balanced and high
// presets. 85 sits above the directive threshold, 50 and 20 below it.
func cycleSlider(s *director.Sliders, name string) {
	next := func(v int) int {
		switch {
		case v < 50:
			return 50
		case v < 85:
			return 85
		default:
			return 20
		}
	}

	switch name {
	case "creativity":
		s.Creativity = next(s.Creativity)
	case "realism":
		s.Realism = next(s.Realism)
	case "technical":
		s.Technical = next(s.Technical)
	}
}

func toggleAdType(p *session.Prefs, t director.AdType) {
	for i, existing := range p.AdTypes {
		if existing == t {
			if len(p.AdTypes) == 1 {
				return
			}
			p.AdTypes = append(p.AdTypes[:i], p.AdTypes[i+1:]...)
			return
		}
	}
	p.AdTypes = append(p.AdTypes, t)
}

func toggleStyle(p *session.Prefs, s director.Style) {
	for i, existing := range p.Styles {
		if existing == s {
			p.Styles = append(p.Styles[:i], p.Styles[i+1:]...)
			return
		}
	}
	p.Styles = append(p.Styles, s)
}

func containsAdType(list []director.AdType, t director.AdType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func containsStyle(list []director.Style, s director.Style) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinAdTypes(list []director.AdType) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = string(t)
	}
	return strings.Join(parts, " + ")
}

func joinStyles(list []director.Style) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Callback data must stay under 64 bytes and cannot contain the ":"
// separator, so multi-word values travel with spaces replaced.
func encodeArg(v string) string {
	return strings.ReplaceAll(v, " ", "_")
}

func decodeArg(v string) string {
	return strings.ReplaceAll(v, "_", " ")
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", briefCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

// parseCallback splits "br:<owner>:<action>[:<arg>]". The split is
// capped at four fields so an argument keeps its own colons, which
// aspect ratios like "9:16" depend on.
func parseCallback(data string) (ownerID int64, action string, args []string, ok bool) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, briefCallbackPrefix+":") {
		return 0, "", nil, false
	}

	parts := strings.SplitN(data, ":", 4)
	if len(parts) < 3 {
		return 0, "", nil, false
	}

	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", nil, false
	}

	if len(parts) == 4 {
		args = []string{parts[3]}
	}
	return ownerID, parts[2], args, true
}

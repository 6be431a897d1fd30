package normalize

import "strings"

// refusalMarkers is a best-effort classifier for textual declines. It is
// substring matching and will produce both false positives and negatives;
// swap the predicate via SetRefusalCheck if a better signal shows up.
var refusalMarkers = []string{
	"cannot",
	"can't",
	"unable",
	"i'm sorry",
	"not able to",
}

var refusalCheck = defaultRefusalCheck

// LooksLikeRefusal reports whether a text-only model reply reads like an
// explicit decline rather than content.
func LooksLikeRefusal(text string) bool {
	return refusalCheck(text)
}

// SetRefusalCheck replaces the refusal predicate. Passing nil restores
// the default marker list.
func SetRefusalCheck(fn func(string) bool) {
	if fn == nil {
		refusalCheck = defaultRefusalCheck
		return
	}
	refusalCheck = fn
}

func defaultRefusalCheck(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, marker := range refusalMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

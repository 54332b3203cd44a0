package poster

import (
	"strings"
	"unicode"
)

// MaxPostLength is the platform's hard character ceiling.
const MaxPostLength = 280

// shapePost turns raw model output into a publishable post: if the model
// emitted commentary before the actual post, only the final paragraph (text
// after the last blank-line separator) is kept, then the result is clamped
// to MaxPostLength without breaking the trailing word.
func shapePost(raw string, stripEmoji bool) string {
	text := strings.TrimSpace(raw)

	if i := strings.LastIndex(text, "\n\n"); i >= 0 {
		text = strings.TrimSpace(text[i+2:])
	}

	text = truncateAtWord(text, MaxPostLength)
	if stripEmoji {
		text = strings.TrimSpace(removeEmoji(text))
	}
	return text
}

// truncateAtWord clamps s to limit runes, cutting at the last whitespace
// boundary so the output never ends mid-word. A single unbroken run longer
// than the limit is cut hard; there is no better boundary to use.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := string(runes[:limit])
	trimmed := strings.TrimRightFunc(cut, func(r rune) bool { return !unicode.IsSpace(r) })
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return cut
	}
	return trimmed
}

// removeEmoji drops emoji and pictographic code points. Used only when the
// configured posting style forbids emoji.
func removeEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, s)
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, ZWJ
		return true
	}
	return false
}

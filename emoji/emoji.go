// Package emoji classifies runes for the emoji placement tool.
//
// Detection is range-table based and deliberately small: the annotation
// engine only needs to know whether placed content is emoji, so it can be
// sized and rendered as a sticker. Full sequence segmentation (ZWJ
// families, subdivision flags) is left to the text shaper.
package emoji

// IsEmoji reports whether the rune reads as emoji content: default emoji
// presentation, an emoji component (skin tones, regional indicators,
// joiners), or a text symbol commonly promoted by a variation selector.
func IsEmoji(r rune) bool {
	return isPresentation(r) || isComponent(r) || isPromotable(r)
}

// ContainsEmoji reports whether any rune in s satisfies IsEmoji.
func ContainsEmoji(s string) bool {
	for _, r := range s {
		if IsEmoji(r) {
			return true
		}
	}
	return false
}

// isPresentation covers characters with default emoji presentation.
func isPresentation(r rune) bool {
	switch {
	// Emoticons
	case r >= 0x1F600 && r <= 0x1F64F:
		return true
	// Miscellaneous Symbols and Pictographs
	case r >= 0x1F300 && r <= 0x1F5FF:
		return true
	// Transport and Map Symbols
	case r >= 0x1F680 && r <= 0x1F6FF:
		return true
	// Supplemental Symbols and Pictographs
	case r >= 0x1F900 && r <= 0x1F9FF:
		return true
	// Symbols and Pictographs Extended-A and -B
	case r >= 0x1FA00 && r <= 0x1FAFF:
		return true
	// Mahjong tiles and playing cards
	case r >= 0x1F000 && r <= 0x1F02F:
		return true
	case r >= 0x1F0A0 && r <= 0x1F0FF:
		return true
	default:
		return false
	}
}

// isComponent covers characters that only appear inside emoji sequences.
func isComponent(r rune) bool {
	switch {
	// Skin tone modifiers
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Regional indicators (flag pairs)
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	// Tag characters and cancel tag
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	// Zero-width joiner
	case r == 0x200D:
		return true
	// Variation selectors
	case r == 0xFE0E || r == 0xFE0F:
		return true
	// Combining enclosing keycap
	case r == 0x20E3:
		return true
	default:
		return false
	}
}

// isPromotable covers text-presentation symbols that render as emoji with
// a variation selector: dingbats, weather, hearts, arrows.
func isPromotable(r rune) bool {
	switch {
	// Dingbats
	case r >= 0x2702 && r <= 0x27B0:
		return true
	// Miscellaneous Symbols
	case r >= 0x2600 && r <= 0x26FF:
		return true
	// Emoji-capable arrows
	case r == 0x2194 || r == 0x2195:
		return true
	case r >= 0x2196 && r <= 0x2199:
		return true
	case r == 0x21A9 || r == 0x21AA:
		return true
	// Double exclamation, exclamation question
	case r == 0x203C || r == 0x2049:
		return true
	// Trade mark, information, circled M
	case r == 0x2122 || r == 0x2139 || r == 0x24C2:
		return true
	// Black squares, medium stars
	case r >= 0x25AA && r <= 0x25AB:
		return true
	case r == 0x25B6 || r == 0x25C0:
		return true
	case r >= 0x25FB && r <= 0x25FE:
		return true
	case r >= 0x2934 && r <= 0x2935:
		return true
	case r >= 0x2B05 && r <= 0x2B07:
		return true
	case r == 0x2B1B || r == 0x2B1C:
		return true
	case r == 0x2B50 || r == 0x2B55:
		return true
	case r == 0x3030 || r == 0x303D:
		return true
	case r == 0x3297 || r == 0x3299:
		return true
	default:
		return false
	}
}

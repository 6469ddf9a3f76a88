package chat

// DetectLanguage inspects the script of the text and returns a supported
// language code. Devanagari maps to Hindi, Telugu script to Telugu,
// everything else to English.
func DetectLanguage(text string) string {
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			return "hi"
		case r >= 0x0C00 && r <= 0x0C7F:
			return "te"
		}
	}
	return "en"
}

// ResolveLanguage picks the response language: an explicit supported code
// wins, "auto" or anything unsupported falls back to script detection.
func ResolveLanguage(requested, text string) string {
	switch requested {
	case "en", "hi", "te", "kn", "ml":
		return requested
	default:
		return DetectLanguage(text)
	}
}

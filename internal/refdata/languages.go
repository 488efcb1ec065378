package refdata

// languageNames maps ISO 639-1 codes to English display names for the
// languages NDCs have been submitted in.
var languageNames = map[string]string{
	"ar": "Arabic",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"km": "Khmer",
	"pt": "Portuguese",
	"ru": "Russian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// LanguageName returns the display name for a language code, falling back to
// the code itself for unknown languages.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// Package transliteration rewrites romanized Urdu and Hindi words into their
// native script before they are handed to a speech provider.
package transliteration

import (
	"sort"
	"strings"
)

// punctuation trimmed from a token before it is looked up
const punctuation = ".,?!"

var table = map[string]map[string]string{
	"ur": {
		"aap": "آپ", "kaise": "کیسے", "hain": "ہیں", "mein": "میں", "theek": "ٹھیک",
		"shukriya": "شکریہ", "salaam": "سلام", "pyar": "پیار", "khuda": "خدا",
		"kitna": "کتنا", "waqt": "وقت", "dost": "دوست", "acha": "اچھا", "nahi": "نہیں",
		"hai": "ہے", "kyun": "کیوں", "kahan": "کہاں", "chai": "چائے", "pani": "پانی",
	},
	"hi": {
		"aap": "आप", "kaise": "कैसे", "ho": "हो", "main": "मैं", "thik": "ठीक",
		"dhanyavad": "धन्यवाद", "namaste": "नमस्ते", "pyaar": "प्यार", "bhagwan": "भगवान",
		"kitna": "कितना", "samay": "समय", "mitr": "मित्र", "achha": "अच्छा", "nahi": "नहीं",
		"hai": "है", "kyun": "क्यों", "kahan": "कहाँ", "chai": "चाय", "paani": "पानी",
	},
}

// Supported reports whether a language code has a transliteration table.
func Supported(code string) bool {
	_, ok := table[code]
	return ok
}

// Lookup returns the native form of a clean, lower-case romanized word.
func Lookup(code, word string) (string, bool) {
	words, ok := table[code]
	if !ok {
		return "", false
	}
	native, ok := words[word]
	return native, ok
}

// Words returns the romanized keys known for a language.
func Words(code string) []string {
	words := table[code]
	out := make([]string, 0, len(words))
	for w := range words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Convert substitutes known romanized words with native script. Text in a
// language without a table is returned untouched.
func Convert(text, code string) string {
	words, ok := table[code]
	if !ok {
		return text
	}

	tokens := strings.Fields(strings.ToLower(text))
	converted := make([]string, 0, len(tokens))
	for _, token := range tokens {
		clean := strings.Trim(token, punctuation)
		native, found := words[clean]
		if !found {
			converted = append(converted, token)
			continue
		}
		// only the final mark survives, "hai?!" becomes "ہے!"
		if last := token[len(token)-1:]; strings.Contains(punctuation, last) {
			native += last
		}
		converted = append(converted, native)
	}

	return strings.Join(converted, " ")
}

package languages

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type Language struct {
	Name    string `json:"name" yaml:"name"`
	Code    string `json:"code" yaml:"code"`
	Example string `json:"example" yaml:"example"`
	RTL     bool   `json:"rtl" yaml:"rtl"`
}

// display order matters - the first entry is the default selection
var table = []Language{
	{Name: "English", Code: "en", Example: "Hello, welcome to our voice speaker!"},
	{Name: "Urdu", Code: "ur", Example: "سلام، ہماری آواز اسپیکر میں خوش آمدید", RTL: true},
	{Name: "Hindi", Code: "hi", Example: "नमस्ते, हमारे वॉइस स्पीकर में आपका स्वागत है"},
	{Name: "Arabic", Code: "ar", Example: "مرحبًا بكم في مكبر الصوت الخاص بنا!", RTL: true},
	{Name: "Spanish", Code: "es", Example: "¡Hola, bienvenido a nuestro altavoz de voz!"},
	{Name: "French", Code: "fr", Example: "Bonjour, bienvenue sur notre haut-parleur vocal !"},
	{Name: "Chinese", Code: "zh", Example: "您好，欢迎使用我们的语音扬声器！"},
	{Name: "Russian", Code: "ru", Example: "Здравствуйте, добро пожаловать в наш голосовой динамик!"},
	{Name: "German", Code: "de", Example: "Hallo, willkommen bei unserem Sprachlautsprecher!"},
	{Name: "Japanese", Code: "ja", Example: "こんにちは、私たちの音声スピーカーへようこそ！"},
}

// codes spoken at the slow rate for clarity
var slowCodes = map[string]struct{}{
	"ur": {},
	"hi": {},
	"ar": {},
}

// languages shown with examples in the UI
var showcase = []string{"Urdu", "Hindi", "Arabic", "English"}

type Phrase struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

var QuickPhrases = []Phrase{
	{Label: "Hello (English)", Text: "Hello, how are you today?"},
	{Label: "آداب (Urdu)", Text: "آپ کیسے ہیں؟"},
	{Label: "नमस्ते (Hindi)", Text: "आप कैसे हैं?"},
}

// All returns a copy of the language table in display order.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

func Default() Language {
	return table[0]
}

func ByName(name string) (Language, bool) {
	for _, l := range table {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}

func ByCode(code string) (Language, bool) {
	for _, l := range table {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// Resolve accepts either a display name ("Urdu") or a code ("ur").
func Resolve(nameOrCode string) (Language, error) {
	key := strings.TrimSpace(nameOrCode)
	if l, ok := ByName(key); ok {
		return l, nil
	}
	if l, ok := ByCode(key); ok {
		return l, nil
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, nameOrCode)
}

// SlowSpeech reports whether speech in this language is requested at the
// slow rate.
func SlowSpeech(code string) bool {
	_, ok := slowCodes[code]
	return ok
}

func Showcase() []Language {
	out := make([]Language, 0, len(showcase))
	for _, name := range showcase {
		if l, ok := ByName(name); ok {
			out = append(out, l)
		}
	}
	return out
}

package transliteration

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertUrduGreeting(t *testing.T) {
	assert.Equal(t, "آپ کیسے ہیں", Convert("aap kaise hain", "ur"))
}

func TestConvertHindiGreeting(t *testing.T) {
	assert.Equal(t, "आप कैसे हो?", Convert("Aap kaise ho?", "hi"))
}

func TestConvertPassThrough(t *testing.T) {
	for _, code := range []string{"en", "ar", "es", "fr", "zh", "ru", "de", "ja", ""} {
		assert.Equal(t, "Hello world", Convert("Hello world", code), code)
		assert.Equal(t, "  Mixed   Spacing ", Convert("  Mixed   Spacing ", code), code)
	}
}

func TestConvertPunctuation(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"aap.", "آپ."},
		{"aap,", "آپ,"},
		{"hai?", "ہے?"},
		{"shukriya!", "شکریہ!"},
		{"hai?!", "ہے!"},
		{".aap", "آپ"},
		{"?", "?"},
		{"dost, acha hai!", "دوست, اچھا ہے!"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Convert(c.in, "ur"), c.in)
	}
}

func TestConvertUnknownWordsLowered(t *testing.T) {
	assert.Equal(t, "hello آپ world!", Convert("HELLO Aap World!", "ur"))
}

func TestConvertCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "آپ کیسے", Convert("  aap \n\t kaise  ", "ur"))
	assert.Equal(t, "", Convert("   ", "ur"))
}

func TestConvertEveryTableEntry(t *testing.T) {
	for code, words := range table {
		for roman, native := range words {
			assert.Equal(t, native, Convert(roman, code))
			assert.Equal(t, native+"?", Convert(strings.ToUpper(roman)+"?", code))
		}
	}
}

func TestConvertSecondPassUnchanged(t *testing.T) {
	for _, code := range []string{"ur", "hi"} {
		once := Convert("aap kaise hain, dost? nahi!", code)
		assert.Equal(t, once, Convert(once, code), code)
	}
}

func TestLookup(t *testing.T) {
	native, ok := Lookup("hi", "namaste")
	assert.True(t, ok)
	assert.Equal(t, "नमस्ते", native)

	_, ok = Lookup("hi", "salaam")
	assert.False(t, ok)

	_, ok = Lookup("en", "aap")
	assert.False(t, ok)

	assert.True(t, Supported("ur"))
	assert.False(t, Supported("ar"))
	assert.Len(t, Words("ur"), 19)
	assert.Len(t, Words("hi"), 19)
	assert.Empty(t, Words("de"))

	words := Words("ur")
	assert.True(t, sort.StringsAreSorted(words))
	assert.Equal(t, "aap", words[0])
	assert.Equal(t, words, Words("ur"))
}

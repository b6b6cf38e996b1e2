package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const (
	// google refuses anything longer per request
	translateMaxChars = 100

	translateSpeedNormal = "1"
	translateSpeedSlow   = "0.24"

	defaultTranslateBaseURL = "https://translate.google.com"
	translateUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"
)

type TranslateConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Translate speaks through the Google Translate TTS endpoint, the same one
// htgo-tts uses, but with control over the speaking rate and support for
// text longer than a single request allows.
type Translate struct {
	baseURL string
	client  *http.Client
}

func NewTranslate(cfg TranslateConfig) *Translate {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultTranslateBaseURL
	}
	return &Translate{
		baseURL: base,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *Translate) Name() string { return ProviderTranslate }

func (t *Translate) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	buf := bytes.NewBuffer(nil)
	if err := t.SynthesizeStream(ctx, req, buf); err != nil {
		return nil, err
	}
	return mp3(buf.Bytes()), nil
}

// SynthesizeStream requests each chunk of text in turn and copies the MP3
// frames to writer. MP3 parts concatenate into a playable stream.
func (t *Translate) SynthesizeStream(ctx context.Context, req Request, writer io.Writer) error {
	chunks := splitText(req.Text, translateMaxChars)
	if len(chunks) == 0 {
		return fmt.Errorf("no text to speak")
	}

	logrus.WithFields(logrus.Fields{
		"language": req.Language,
		"slow":     req.Slow,
		"chunks":   len(chunks),
	}).Debugln("translate tts request")

	for idx, chunk := range chunks {
		if err := t.fetchChunk(ctx, req, chunk, idx, len(chunks), writer); err != nil {
			return fmt.Errorf("failed chunk %d/%d; %w", idx+1, len(chunks), err)
		}
	}
	return nil
}

func (t *Translate) fetchChunk(ctx context.Context, req Request, chunk string, idx, total int, writer io.Writer) error {
	speed := translateSpeedNormal
	if req.Slow {
		speed = translateSpeedSlow
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", req.Language)
	query.Set("q", chunk)
	query.Set("ttsspeed", speed)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/translate_tts?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", translateUserAgent)
	httpReq.Header.Set("Referer", t.baseURL+"/")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach translate; %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("translate returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	n, err := io.Copy(writer, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio; %w", err)
	}
	if n == 0 {
		return fmt.Errorf("translate returned no audio")
	}
	return nil
}

// splitText breaks text into pieces of at most max runes, preferring
// whitespace boundaries. Words longer than max are cut.
func splitText(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		for wordLen > max {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:max]))
			word = string(runes[max:])
			wordLen -= max
		}

		if currentLen > 0 && currentLen+1+wordLen > max {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	return chunks
}

package voice

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/sirupsen/logrus"
)

// size of the placeholder file htgo-tts writes when google rejects the text
const htgottsBadFileSize = 1685

var ErrLineTooLong = errors.New("failed to gen speech - line too long")

type GoogleConfig struct {
	// scratch directory for htgo-tts output files
	Folder string
	Proxy  string
}

// Google synthesizes through htgo-tts. The library has no rate setting,
// so slow requests are spoken at the normal rate.
type Google struct {
	folder string
	proxy  string
}

func NewGoogle(cfg GoogleConfig) *Google {
	folder := cfg.Folder
	if folder == "" {
		folder = os.TempDir()
	}
	return &Google{folder: folder, proxy: cfg.Proxy}
}

func (api *Google) Name() string { return ProviderGoogle }

func (api *Google) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Slow {
		logrus.WithField("language", req.Language).Debugln("htgotts has no slow rate; using normal")
	}

	// htgo-tts skips the download when the file exists, so every call
	// gets its own directory
	dir, err := os.MkdirTemp(api.folder, "htgotts-")
	if err != nil {
		return nil, fmt.Errorf("failed to create out dir; %w", err)
	}
	defer os.RemoveAll(dir)

	speech := htgotts.Speech{Folder: dir, Language: req.Language, Proxy: api.proxy}
	path, err := speech.CreateSpeechFile(req.Text, hashString(req.Text+uuid.NewString()))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == htgottsBadFileSize {
		logrus.WithField("line", req.Text).Infoln("htgotts returned bad MP3file")
		return nil, ErrLineTooLong
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech file; %w", err)
	}
	return mp3(data), nil
}

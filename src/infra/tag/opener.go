package tag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/contre95/tagmend/src/features/fixing"
	"github.com/dhowden/tag"
)

// Opener opens tag stores for audio files. Known extensions map straight
// to a container; anything else gets sniffed before being declared
// unsupported.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() fixing.StoreOpener {
	return &Opener{}
}

// Open returns a tag store for the file, or ErrUnsupportedContainer when
// its tag container cannot be read.
func (o *Opener) Open(ctx context.Context, path string) (fixing.Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return openID3(path)
	case ".flac":
		return openFLAC(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	_, fileType, idErr := tag.Identify(file)
	file.Close()
	if idErr != nil {
		return nil, fmt.Errorf("%w: %s", fixing.ErrUnsupportedContainer, path)
	}

	switch fileType {
	case tag.MP3:
		return openID3(path)
	case tag.FLAC:
		return openFLAC(path)
	}
	return nil, fmt.Errorf("%w: %s", fixing.ErrUnsupportedContainer, path)
}

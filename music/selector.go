package music

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
)

var audioExtensions = []string{".mp3", ".m4a", ".wav", ".ogg"}

// Selector picks a random track from a local directory of audio files.
// The random source is injectable so tests can pin the selection.
type Selector struct {
	dir string
	rng *rand.Rand
}

// NewSelector creates a Selector over the given directory
func NewSelector(dir string) *Selector {
	return NewSelectorWithRand(dir, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithRand creates a Selector with a caller-supplied random source
func NewSelectorWithRand(dir string, rng *rand.Rand) *Selector {
	return &Selector{dir: dir, rng: rng}
}

// Pick returns one audio file chosen uniformly at random, or false when the
// directory is missing or holds no recognized audio files
func (s *Selector) Pick() (string, bool) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false
	}

	tracks := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && lo.Contains(audioExtensions, strings.ToLower(filepath.Ext(e.Name())))
	})
	if len(tracks) == 0 {
		return "", false
	}

	pick := tracks[s.rng.Intn(len(tracks))]
	return filepath.Join(s.dir, pick.Name()), true
}

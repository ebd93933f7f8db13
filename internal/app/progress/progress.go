// Package progress renders terminal progress bars for repository downloads.
package progress

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager owns the bar container. A disabled manager passes readers through untouched.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &Manager{
		container: container,
		enabled:   true,
	}
}

// Enabled reports whether bars are drawn.
func (pm *Manager) Enabled() bool {
	return pm.enabled
}

// Download wraps body with a byte counting bar named after filename.
// size may be zero when the length is unknown. Its signature matches hfcache.ProgressFunc.
func (pm *Manager) Download(filename string, size int64, body io.Reader) io.Reader {
	if !pm.enabled || pm.container == nil {
		return body
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	bar := pm.container.AddBar(size,
		mpb.PrependDecorators(
			decor.Name(filename+" ", decor.WC{W: len(filename) + 1, C: decor.DindentRight}),
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
			decor.OnComplete(
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 30, decor.WCSyncSpace), "",
			),
		),
	)

	return &barReader{reader: bar.ProxyReader(body), bar: bar}
}

// barReader settles the bar when the body ends so Wait never blocks on it.
type barReader struct {
	reader io.Reader
	bar    *mpb.Bar
}

func (r *barReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	switch {
	case errors.Is(err, io.EOF):
		r.bar.SetTotal(-1, true)
	case err != nil:
		r.bar.Abort(false)
	}
	return n, err
}

// Wait blocks until every bar completed or aborted.
func (pm *Manager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

// Shutdown stops rendering without waiting for bars.
func (pm *Manager) Shutdown() {
	if pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}

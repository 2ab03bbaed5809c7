package ytdlp

import (
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	goytdlp "github.com/lrstanley/go-ytdlp"
)

const barTemplate = `{{with string . "prefix"}}{{.}}{{end}}: {{percent . }} {{bar . }} {{counters . }} [{{speed . }}] {{rtime . "ETA %s"}}`

const maxPrefixRunes = 40

// progress renders one bar per downloaded stream. A merged video download
// reports the video and audio streams in turn, each with its own total.
type progress struct {
	out io.Writer

	mu    sync.Mutex
	bar   *pb.ProgressBar
	total int64
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

func (p *progress) update(u goytdlp.ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := int64(u.TotalBytes)
	if total <= 0 {
		return
	}
	if p.bar == nil || total != p.total {
		p.finishLocked()
		p.bar = pb.New64(total).
			Set(pb.Bytes, true).
			Set("prefix", prefix(u)).
			SetWriter(p.out).
			SetRefreshRate(200 * time.Millisecond).
			SetTemplateString(barTemplate)
		p.bar.Start()
		p.total = total
	}
	p.bar.SetCurrent(int64(u.DownloadedBytes))
}

func (p *progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *progress) finishLocked() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
		p.total = 0
	}
}

func prefix(u goytdlp.ProgressUpdate) string {
	if u.Info == nil || u.Info.Title == nil || *u.Info.Title == "" {
		return "download"
	}
	r := []rune(*u.Info.Title)
	if len(r) > maxPrefixRunes {
		return string(r[:maxPrefixRunes-1]) + "…"
	}
	return string(r)
}

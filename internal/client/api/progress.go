package api

import (
	"io"
	"sync"
)

// progressReader wraps the audio byte source and reports the transmitted
// fraction. Reported values are clamped to [0,1] and never decrease, even if
// the underlying size estimate turns out short.
type progressReader struct {
	r        io.Reader
	total    int64
	onChange ProgressFunc

	mu   sync.Mutex
	read int64
	last float64
}

func newProgressReader(r io.Reader, total int64, onChange ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onChange: onChange}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onChange != nil {
		p.report(int64(n))
	}
	return n, err
}

func (p *progressReader) report(n int64) {
	p.mu.Lock()
	p.read += n
	frac := 1.0
	if p.total > 0 {
		frac = float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
	}
	if frac < p.last {
		frac = p.last
	}
	advanced := frac > p.last
	p.last = frac
	p.mu.Unlock()

	if advanced {
		p.onChange(frac)
	}
}

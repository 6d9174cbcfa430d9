package gochunk

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chararch/gochunk/status"
	"github.com/mattn/go-isatty"
)

//Ticker receives the number of items of the current chunk processed so far
type Ticker func(processed int)

// Instrument returns a transform equivalent to fn that also reports progress
// through tick. The engine binds tick to a chunk before calling it.
type Instrument func(fn Func, tick Ticker) Func

// EveryN instrumentation ticking once every period calls of the transform.
// The returned Func counts calls, so it must not be shared between chunks;
// the engine instruments once per chunk.
func EveryN(period int) Instrument {
	if period < 1 {
		period = 1
	}
	return func(fn Func, tick Ticker) Func {
		calls := 0
		return func(item interface{}, args ...interface{}) (interface{}, error) {
			v, err := fn(item, args...)
			calls++
			if calls%period == 0 {
				tick(calls)
			}
			return v, err
		}
	}
}

const barWidth = 30

// progressBars draws one bar per chunk. On a terminal the bars are redrawn in
// place, otherwise a summary line is written per refresh.
type progressBars struct {
	mu       sync.Mutex
	out      io.Writer
	tty      bool
	sizes    []int
	progress []int
	failed   []bool
	drawn    int
}

func newProgressBars(out io.Writer) *progressBars {
	if out == nil {
		out = os.Stderr
	}
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progressBars{out: out, tty: tty}
}

func (p *progressBars) BeforeRun(sizes []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizes = append([]int(nil), sizes...)
	p.progress = make([]int, len(sizes))
	p.failed = make([]bool, len(sizes))
	p.drawn = 0
	p.draw()
}

func (p *progressBars) AfterRun(overall status.ChunkStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
	if !p.tty {
		fmt.Fprintf(p.out, "run finished, status:%v\n", overall)
	}
}

func (p *progressBars) OnInputConsumed(index int) {}

func (p *progressBars) OnProgress(progress []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(p.progress, progress)
	p.draw()
}

// Success snaps are delivered through OnProgress by the orchestrator.
func (p *progressBars) OnSuccess(index int) {}

func (p *progressBars) OnError(index int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index >= 0 && index < len(p.failed) {
		p.failed[index] = true
	}
}

func (p *progressBars) draw() {
	if len(p.sizes) == 0 {
		return
	}
	if !p.tty {
		fmt.Fprintln(p.out, p.summary())
		return
	}
	var b strings.Builder
	if p.drawn > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", p.drawn)
	}
	for i := range p.sizes {
		b.WriteString("\x1b[2K")
		b.WriteString(p.bar(i))
		b.WriteByte('\n')
	}
	io.WriteString(p.out, b.String())
	p.drawn = len(p.sizes)
}

func (p *progressBars) bar(i int) string {
	done, size := p.progress[i], p.sizes[i]
	ratio := 1.0
	if size > 0 {
		ratio = float64(done) / float64(size)
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * barWidth)
	line := fmt.Sprintf("%4d [%s%s] %6.2f%% %d/%d", i, strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), ratio*100, done, size)
	if p.failed[i] {
		line += " ERROR"
	}
	return line
}

func (p *progressBars) summary() string {
	done, total, failed := 0, 0, 0
	for i := range p.sizes {
		d := p.progress[i]
		if d > p.sizes[i] {
			d = p.sizes[i]
		}
		done += d
		total += p.sizes[i]
		if p.failed[i] {
			failed++
		}
	}
	ratio := 100.0
	if total > 0 {
		ratio = float64(done) * 100 / float64(total)
	}
	line := fmt.Sprintf("progress: %d/%d (%.2f%%)", done, total, ratio)
	if failed > 0 {
		line += fmt.Sprintf(", failed chunks:%d", failed)
	}
	return line
}

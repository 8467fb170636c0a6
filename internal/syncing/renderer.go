// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// frames is the braille spinner used for in-flight objects, matching the
// docker CLI animation.
var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Renderer paints live sync progress into a rewritable terminal area: one
// line per object with a spinner while running, ✓ once loaded, ✗ on
// failure. The area is removed on Stop; persistent summary output is the
// caller's job.
type Renderer struct {
	state *ProgressState

	mu       sync.Mutex
	area     *pterm.AreaPrinter
	frameIdx int
	// maxLineLen is a high-water mark; shorter frames are padded to it so
	// the area never flickers when a line shrinks
	maxLineLen int
	lastDrawn  string

	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewRenderer creates a Renderer over the given progress state.
func NewRenderer(state *ProgressState) *Renderer {
	return &Renderer{state: state}
}

// Start hides the cursor, opens the terminal area and begins the spinner
// ticker. Calling Start twice is a no-op.
func (r *Renderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}

	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return
	}
	r.area = area
	r.stop = make(chan struct{})
	r.started = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				r.mu.Lock()
				r.frameIdx++
				r.paintLocked()
				r.mu.Unlock()
			case <-r.stop:
				return
			}
		}
	}()
}

// HandleEvent folds an event into the state and repaints. Safe to call
// from any goroutine, so it can be handed to the engine as its event sink.
func (r *Renderer) HandleEvent(ev Event) {
	r.state.Apply(ev)
	r.mu.Lock()
	r.paintLocked()
	r.mu.Unlock()
}

// Stop ends the ticker and removes the area. Calling Stop without Start,
// or twice, is a no-op.
func (r *Renderer) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	stop := r.stop
	r.mu.Unlock()

	close(stop)
	r.wg.Wait()

	r.mu.Lock()
	r.area.Stop()
	r.area = nil
	r.mu.Unlock()
	cursor.Show()
}

// paintLocked redraws the area from the current state. Callers hold r.mu.
func (r *Renderer) paintLocked() {
	if r.area == nil {
		return
	}

	entries := r.state.Lines()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		var line string
		switch e.State {
		case "active":
			line = frames[r.frameIdx%len(frames)] + " syncing " + e.Object
			if e.Progress.Total >= 0 {
				line += fmt.Sprintf(" (%d/%d rows)", e.Progress.Copied, e.Progress.Total)
			}
		case "done":
			line = fmt.Sprintf("✓ synced %s (%d rows)", e.Object, e.Rows)
		case "failed":
			line = "✗ failed " + e.Object
		}
		if l := utf8.RuneCountInString(line); l > r.maxLineLen {
			r.maxLineLen = l
		}
		lines = append(lines, line)
	}

	for i := range lines {
		if pad := r.maxLineLen - utf8.RuneCountInString(lines[i]); pad > 0 {
			lines[i] += strings.Repeat(" ", pad)
		}
	}

	text := strings.Join(lines, "\n")
	if text == r.lastDrawn {
		return
	}
	r.lastDrawn = text
	r.area.Update(text)
}

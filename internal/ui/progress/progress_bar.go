// Package progress shows how far a fleet run has got.
//
// The bar renders on stderr so the report on stdout stays clean for
// piping. It is meant for terminals only; callers decide whether to use it.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/fleet/internal/ui/styles"
)

// progressUpdate is sent to update the progress bar
type progressUpdate struct {
	current int
	repo    string
}

// Bar wraps a Bubbletea progress bar for non-interactive use.
// It counts processed repositories out of a known total.
type Bar struct {
	out       io.Writer
	program   *tea.Program
	updateCh  chan progressUpdate
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	total     int
	current   int
	repo      string
}

type barModel struct {
	progress progress.Model
	total    int
	current  int
	repo     string
	updateCh chan progressUpdate
}

func (m barModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m barModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updateCh
		if !ok {
			return tea.Quit()
		}
		return update
	}
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressUpdate:
		m.current = msg.current
		m.repo = msg.repo
		return m, m.waitForUpdate()
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

func (m barModel) View() tea.View {
	return tea.NewView(m.line())
}

// line renders e.g. "[████░░░░] 2/5 web"
func (m barModel) line() string {
	if m.repo == "" {
		return ""
	}
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}
	return fmt.Sprintf("%s %d/%d %s", m.progress.ViewAs(percent), m.current, m.total, m.repo)
}

// NewBar creates a progress bar over total repositories writing to out.
func NewBar(out io.Writer, total int) *Bar {
	return &Bar{
		out:      out,
		updateCh: make(chan progressUpdate, 10),
		done:     make(chan struct{}),
		total:    total,
	}
}

// Start begins rendering.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isRunning {
		return
	}

	model := barModel{
		progress: progress.New(
			progress.WithWidth(30),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Primary, styles.Muted),
		),
		total:    b.total,
		current:  b.current,
		repo:     b.repo,
		updateCh: b.updateCh,
	}

	// Input stays with the operation (hooks, git credential prompts)
	b.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(b.out))
	b.isRunning = true

	go func() {
		_, _ = b.program.Run()
		close(b.done)
	}()
}

// SetProgress records that done repositories are finished and repo is next.
func (b *Bar) SetProgress(done int, repo string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isRunning {
		b.current = done
		b.repo = repo
		return
	}

	// Drops the update when the renderer is behind
	select {
	case b.updateCh <- progressUpdate{current: done, repo: repo}:
	default:
	}
}

// Stop stops rendering and clears the line. Safe to call repeatedly.
func (b *Bar) Stop() {
	b.mu.Lock()
	if !b.isRunning {
		b.mu.Unlock()
		return
	}
	b.isRunning = false
	close(b.updateCh)
	b.mu.Unlock()

	if b.program != nil {
		b.program.Quit()
	}

	select {
	case <-b.done:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(b.out, "\r\033[K")
}

// Total returns the number of repositories the bar counts to.
func (b *Bar) Total() int {
	return b.total
}

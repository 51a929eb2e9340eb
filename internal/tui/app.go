package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsticker/internal/browser"
	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/matheuskafuri/newsticker/internal/source"
	"golang.org/x/time/rate"
)

const (
	defaultRefresh        = 5 * time.Minute
	defaultFrame          = 80 * time.Millisecond
	defaultResolveTimeout = time.Minute
	noticeTTL             = 2 * time.Second
)

// Resolver runs one resolve cycle for a service.
type Resolver interface {
	Resolve(ctx context.Context, svc news.Service) source.Outcome
}

type App struct {
	state    *source.State
	resolver Resolver
	limiter  *rate.Limiter
	log      *slog.Logger
	open     func(string) error

	refreshEvery   time.Duration
	frameEvery     time.Duration
	resolveTimeout time.Duration

	width  int
	height int

	spinner  spinner.Model
	marquee  marquee
	cursor   int
	paused   bool
	help     bool
	notice   string
	noticeID int
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	State           *source.State
	Resolver        Resolver
	RefreshInterval time.Duration
	FrameInterval   time.Duration
	ResolveTimeout  time.Duration
	// Limiter throttles manual refreshes; nil allows one every 2 seconds.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		state:          opts.State,
		resolver:       opts.Resolver,
		limiter:        opts.Limiter,
		log:            opts.Logger,
		open:           browser.Open,
		refreshEvery:   opts.RefreshInterval,
		frameEvery:     opts.FrameInterval,
		resolveTimeout: opts.ResolveTimeout,
		spinner:        sp,
	}
	if a.refreshEvery <= 0 {
		a.refreshEvery = defaultRefresh
	}
	if a.frameEvery <= 0 {
		a.frameEvery = defaultFrame
	}
	if a.resolveTimeout <= 0 {
		a.resolveTimeout = defaultResolveTimeout
	}
	if a.limiter == nil {
		a.limiter = rate.NewLimiter(rate.Every(2*time.Second), 1)
	}
	if a.log == nil {
		a.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.resolveCmd(a.state.Refresh()),
		a.spinner.Tick,
		a.scheduleRefresh(),
		a.scheduleFrame(),
	)
}

// resolveCmd captures the ticket into the closure so the result can be
// matched against the state when it arrives.
func (a *App) resolveCmd(t source.Ticket) tea.Cmd {
	r := a.resolver
	timeout := a.resolveTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resolvedMsg{ticket: t, outcome: r.Resolve(ctx, t.Service)}
	}
}

func (a *App) scheduleRefresh() tea.Cmd {
	return tea.Tick(a.refreshEvery, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (a *App) scheduleFrame() tea.Cmd {
	return tea.Tick(a.frameEvery, func(time.Time) tea.Msg { return frameMsg{} })
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

// flash shows a short-lived notice in the status bar.
func (a *App) flash(text string) tea.Cmd {
	a.noticeID++
	a.notice = text
	id := a.noticeID
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

// refresh starts a cycle for the current service. The spinner loop is only
// started when no cycle was already running.
func (a *App) refresh() tea.Cmd {
	wasLoading := a.state.Loading()
	cmds := []tea.Cmd{a.resolveCmd(a.state.Refresh())}
	if !wasLoading {
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) switchTo(svc news.Service) tea.Cmd {
	t, err := a.state.Switch(svc)
	if errors.Is(err, source.ErrBusy) {
		a.log.Debug("tui.switch_rejected", "service", svc.String())
		return a.flash("still loading " + a.state.Service().Label() + ", try again shortly")
	}
	a.marquee = marquee{}
	a.cursor = 0
	a.log.Info("tui.switch", "service", svc.String())
	return tea.Batch(a.resolveCmd(t), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case resolvedMsg:
		if a.state.Apply(msg.ticket, msg.outcome) {
			snap := a.state.Snapshot()
			a.marquee = newMarquee(snap.Headlines, time.Now())
			if a.cursor >= len(snap.Headlines) {
				a.cursor = max(0, len(snap.Headlines)-1)
			}
		}
		return a, nil

	case refreshTickMsg:
		return a, tea.Batch(a.refresh(), a.scheduleRefresh())

	case frameMsg:
		if !a.paused {
			a.marquee.step()
		}
		return a, a.scheduleFrame()

	case noticeExpiredMsg:
		if msg.id == a.noticeID {
			a.notice = ""
		}
		return a, nil

	case openErrMsg:
		if errors.Is(msg.err, browser.ErrNoLink) {
			return a, a.flash("this headline has no link")
		}
		a.log.Warn("tui.open_failed", "err", msg.err)
		return a, a.flash(msg.err.Error())

	case spinner.TickMsg:
		if a.state.Loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if a.help {
		switch key {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "?", "esc":
			a.help = false
		}
		return a, nil
	}

	switch key {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "s", "tab":
		return a, a.switchTo(a.state.Service().Next())
	case "1", "2", "3", "4", "5", "6":
		services := news.Services()
		idx := int(key[0] - '1')
		if idx < len(services) {
			return a, a.switchTo(services[idx])
		}
		return a, nil
	case "r":
		if !a.limiter.Allow() {
			return a, a.flash("refresh throttled")
		}
		return a, a.refresh()
	case " ", "space":
		a.paused = !a.paused
		return a, nil
	case "j", "down":
		if a.cursor < len(a.marquee.items)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "o", "enter":
		if h, ok := a.selected(); ok {
			return a, a.openCmd(h.URL)
		}
		return a, nil
	case "?":
		a.help = true
		return a, nil
	}
	return a, nil
}

// selected is the headline at the list cursor, or the one leading the
// ticker when the list is not shown.
func (a *App) selected() (news.Headline, bool) {
	items := a.marquee.items
	if len(items) == 0 {
		return news.Headline{}, false
	}
	if a.listHeight() < 3 {
		return items[a.marquee.lead()], true
	}
	return items[min(a.cursor, len(items)-1)], true
}

// header, ticker (3 rows with border), status bar
const chromeHeight = 1 + 3 + 1

func (a *App) listHeight() int {
	return a.height - chromeHeight - 2
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsticker")
	}
	if a.help {
		return a.renderHelp()
	}

	snap := a.state.Snapshot()

	header := a.renderHeader(snap)

	tickerW := a.width - 2
	style := tickerStyle
	if a.paused {
		style = tickerPausedStyle
	}
	strip := a.marquee.view(tickerW - 2)
	if a.marquee.empty() {
		strip = headerDimStyle.Render(emptyText(snap))
	}
	ticker := style.Width(tickerW).Padding(0, 1).Render(strip)

	parts := []string{header, ticker}
	if h := a.listHeight(); h >= 3 {
		list := renderList(a.marquee.items, a.cursor, h, a.width-4, emptyText(snap))
		parts = append(parts, listPaneStyle.Width(a.width-2).Height(h).Render(list))
	}
	parts = append(parts, renderStatusBar(snap, a.width, a.paused, a.notice))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func emptyText(snap source.Snapshot) string {
	if snap.Loading {
		return "Loading " + snap.Service.Label() + " headlines..."
	}
	return "No headlines available"
}

func (a *App) renderHeader(snap source.Snapshot) string {
	var tabs []string
	for i, svc := range news.Services() {
		label := fmt.Sprintf("%d %s", i+1, svc.Label())
		if svc == snap.Service {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}

	left := headerStyle.Render("newsticker") + " " + strings.Join(tabs, " ")

	var right []string
	if snap.Loading {
		right = append(right, a.spinner.View())
	}
	if snap.Offline {
		right = append(right, offlineBadgeStyle.Render("OFFLINE"))
	}
	rightStr := strings.Join(right, " ")

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + rightStr
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsticker")
	dim := helpDimStyle

	help := title + dim.Render(" keyboard shortcuts") + "\n\n" +
		dim.Render("Services") + "\n" +
		"  s, tab        Next service\n" +
		"  1-6           Pick a service\n\n" +
		dim.Render("Ticker") + "\n" +
		"  space         Pause or resume scrolling\n" +
		"  r             Refresh now\n" +
		"  j/k, ↑/↓      Move through the list\n" +
		"  o, enter      Open headline in browser\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

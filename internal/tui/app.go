// Package tui provides the interactive Bubble Tea planner for tripvault.
package tui

import (
	"context"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/render"
	"github.com/theirongolddev/tripvault/internal/share"
	"github.com/theirongolddev/tripvault/internal/tui/components"
	"github.com/theirongolddev/tripvault/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FrameMsg carries a render pass published by the planner session.
type FrameMsg struct {
	Frame planner.Frame
}

// SavedMsg is sent when a remote save finishes. The notice itself
// arrives on the following frame.
type SavedMsg struct {
	Outcome planner.SaveOutcome
	Err     error
}

type animTickMsg time.Time

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	frameBuffer  = 16
	animInterval = 16 * time.Millisecond
	saveTimeout  = 30 * time.Second
)

// Options wires an App to its session and optional remote.
type Options struct {
	Session *planner.Session
	// Remote is nil when no save service is configured.
	Remote    planner.Saver
	TripIDs   planner.TripIDCache
	ShareBase string
	Symbol    string
	// NeedSetup opens the first-run configuration form before the planner.
	NeedSetup  bool
	ConfigPath string
}

// App is the root Bubble Tea model.
type App struct {
	session   *planner.Session
	subID     int
	frames    <-chan planner.Frame
	remote    planner.Saver
	tripIDs   planner.TripIDCache
	shareBase string

	renderer *render.Renderer
	symbol   string

	// Latest frame
	loaded     bool
	seq        int64
	it         model.Itinerary
	res        pipeline.Result
	headline   render.Headline
	categories []render.CategoryRow
	notice     *planner.Notice

	// Headline animation
	tweens    map[string]money.Tween
	now       time.Time
	animating bool

	// UI state
	width    int
	height   int
	cursor   int
	showHelp bool
	saving   bool
	spinner  spinner.Model

	// Active huh form, if any
	form     *huh.Form
	formKind formKind
	tripVals *tripValues
	dayVals  *dayValues
	lineVals *lineValues
	confirm  *bool

	// First-run setup
	needSetup  bool
	setupVals  *setupValues
	configPath string
}

// NewApp creates the planner model and subscribes it to the session.
func NewApp(opts Options) (App, error) {
	r, err := render.New(render.Options{Symbol: opts.Symbol})
	if err != nil {
		return App{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	id, ch := opts.Session.Subscribe(frameBuffer)
	a := App{
		session:    opts.Session,
		subID:      id,
		frames:     ch,
		remote:     opts.Remote,
		tripIDs:    opts.TripIDs,
		shareBase:  opts.ShareBase,
		renderer:   r,
		symbol:     r.Symbol(),
		tweens:     make(map[string]money.Tween),
		spinner:    sp,
		needSetup:  opts.NeedSetup,
		configPath: opts.ConfigPath,
	}
	if a.needSetup {
		a.startSetup()
	}
	return a, nil
}

// Close detaches the app from the session.
func (a App) Close() {
	a.session.Unsubscribe(a.subID)
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		waitForFrame(a.frames),
		refreshCmd(a.session),
		a.spinner.Tick,
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, maxContentWidth)).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.handleKey(msg.String())

	case tea.MouseMsg:
		if a.form != nil || a.showHelp || !a.loaded {
			return a, nil
		}
		return a.handleMouse(msg)

	case FrameMsg:
		a.applyFrame(msg.Frame)
		cmds := []tea.Cmd{waitForFrame(a.frames)}
		if !a.animating {
			a.animating = true
			cmds = append(cmds, animTickCmd())
		}
		return a, tea.Batch(cmds...)

	case animTickMsg:
		a.now = time.Time(msg)
		for _, tw := range a.tweens {
			if !tw.Done(a.now) {
				return a, animTickCmd()
			}
		}
		a.animating = false
		return a, nil

	case SavedMsg:
		a.saving = false
		return a, nil

	case spinner.TickMsg:
		if a.saving || !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

// applyFrame stores the frame and starts headline tweens from whatever
// was shown last.
func (a *App) applyFrame(f planner.Frame) {
	a.loaded = true
	a.seq = f.Seq
	a.it = f.Itinerary
	a.res = f.Result
	if f.Notice != nil {
		a.notice = f.Notice
	}

	a.headline = a.renderer.Headline(a.it, a.res)
	a.categories = a.renderer.Categories(a.res)

	now := f.At
	if now.IsZero() {
		now = time.Now()
	}
	a.now = now
	for _, m := range []render.Metric{a.headline.Total, a.headline.PerPerson, a.headline.DailyAvg} {
		a.tweens[m.ID] = money.Tween{From: m.From, To: m.To, Start: now, Duration: money.AnimationDuration}
	}
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.it.Days) {
		a.cursor = len(a.it.Days) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// currentDay returns the id of the day under the cursor.
func (a App) currentDay() (string, bool) {
	if a.cursor < 0 || a.cursor >= len(a.it.Days) {
		return "", false
	}
	return a.it.Days[a.cursor].ID, true
}

// focus moves the cursor to the day with the given id in the session's
// current plan, which may be ahead of the last frame.
func (a *App) focus(dayID string) {
	it := a.session.Itinerary()
	if i := it.DayIndex(dayID); i >= 0 {
		a.cursor = i
	}
}

func (a App) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	s := a.session
	dayID, hasDay := a.currentDay()

	switch key {
	case "q":
		return a, tea.Quit

	case "j", "down":
		if a.cursor < len(a.it.Days)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = max(0, len(a.it.Days)-1)

	case "a":
		a.focus(s.AddDay(planner.AddFromTemplate))
	case "A":
		a.focus(s.AddDay(planner.AddCopyLast))
	case "d":
		if id, ok := s.DuplicateDay(dayID); ok {
			a.focus(id)
		}
	case "x", "delete":
		if hasDay {
			s.RemoveDay(dayID)
		}
	case "J":
		if s.MoveDay(dayID, 1) {
			a.cursor++
		}
	case "K":
		if s.MoveDay(dayID, -1) {
			a.cursor--
		}
	case "enter", " ":
		s.ToggleCollapse(dayID)
	case "c":
		if hasDay {
			mode := model.TransportCab
			if a.it.Days[a.cursor].TransportMode == model.TransportCab {
				mode = model.TransportSelf
			}
			s.SetTransportMode(dayID, mode)
		}

	case "1", "2", "3":
		s.SetTripField(planner.TripTier, string(model.Tiers[key[0]-'1']))
	case "t":
		s.SetTripField(planner.TripTier, string(nextOf(model.Tiers, a.it.Trip.Tier)))
	case "v":
		s.SetTripField(planner.TripVehicle, string(nextOf(model.Vehicles, a.it.Trip.Vehicle)))
	case "m":
		mode := model.ModePerPerson
		if a.it.Trip.Mode() == model.ModePerPerson {
			mode = model.ModeGroup
		}
		s.SetTripField(planner.TripDefaultMode, string(mode))
	case "+", "=":
		s.SetTripField(planner.TripPeople, a.it.Trip.PartySize()+1)
	case "-":
		s.SetTripField(planner.TripPeople, max(1, a.it.Trip.PartySize()-1))

	case "s":
		cmd := a.startTripForm()
		return a, cmd
	case "e":
		if hasDay {
			cmd := a.startDayForm(a.it.Days[a.cursor])
			return a, cmd
		}
	case "n":
		if hasDay {
			cmd := a.startLineForm(dayID)
			return a, cmd
		}
	case "R":
		cmd := a.startResetForm()
		return a, cmd

	case "l":
		a.shareLink()
	case "ctrl+s", "S":
		return a.save(key == "S")
	}
	return a, nil
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.cursor < len(a.it.Days)-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.Y != tierRow {
			return a, nil
		}
		if i := a.tierAtX(msg.X); i >= 0 {
			a.session.SetTripField(planner.TripTier, string(model.Tiers[i]))
		}
	}
	return a, nil
}

// shareLink builds a share link for the current plan and shows it as a
// notice on the next frame.
func (a App) shareLink() {
	link, err := share.Link(a.shareBase, a.session.Itinerary())
	if err != nil {
		a.session.Notify(planner.Notice{Kind: planner.NoticeError, Text: "Could not build share link."})
		return
	}
	a.session.Notify(planner.Notice{Kind: planner.NoticeInfo, Text: "Share link:", Link: link})
}

func (a App) save(asNew bool) (tea.Model, tea.Cmd) {
	if a.remote == nil {
		a.session.Notify(planner.Notice{Kind: planner.NoticeError, Text: "Remote saving is not configured."})
		return a, nil
	}
	if a.saving {
		return a, nil
	}
	a.saving = true
	a.session.Flush()
	return a, tea.Batch(saveCmd(a.session, a.remote, a.tripIDs, asNew), a.spinner.Tick)
}

// nextOf returns the value after cur in values, wrapping around.
func nextOf[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// tierPills are the header toggle group, in model.Tiers order.
func tierPills() []components.Pill {
	return []components.Pill{
		{Label: "Budget", Key: '1'},
		{Label: "Standard", Key: '2'},
		{Label: "Luxury", Key: '3'},
	}
}

func (a App) activeTier() int {
	for i, t := range model.Tiers {
		if t == a.it.Trip.Tier {
			return i
		}
	}
	return 1
}

// tierAtX returns the tier index under column x of the tier row, or -1.
// The row starts with tierLabel, matching viewHeader.
func (a App) tierAtX(x int) int {
	return components.PillAt(tierPills(), a.activeTier(), x-lipgloss.Width(tierLabel))
}

func waitForFrame(ch <-chan planner.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return FrameMsg{Frame: f}
	}
}

// refreshCmd asks the session for an opening frame.
func refreshCmd(s *planner.Session) tea.Cmd {
	return func() tea.Msg {
		s.Refresh()
		return nil
	}
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// saveCmd runs the remote save in the background.
func saveCmd(s *planner.Session, saver planner.Saver, cache planner.TripIDCache, asNew bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		out, err := s.Save(ctx, saver, cache, asNew)
		return SavedMsg{Outcome: out, Err: err}
	}
}

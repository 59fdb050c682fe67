package tui

import (
	"fmt"
	"log"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/marsestate/internal/model"
	"github.com/tinytelemetry/marsestate/internal/overview"
)

// OverviewPageID identifies the listings overview page.
const OverviewPageID = "overview"

// chartMinWidth is the terminal width from which the price chart sits next to
// the table instead of below it.
const chartMinWidth = 100

// OverviewConfig configures an OverviewPage and the controller it owns.
type OverviewConfig struct {
	DefaultFilter      model.Filter
	EmptyResultDone    bool
	DiscardStale       bool
	ReverseScrollWheel bool
	Logger             *log.Logger
}

// OverviewPage renders the listings controller: a filter bar, the listings
// table with a price chart, and detail/help modals.
type OverviewPage struct {
	modalStack

	ctrl    *overview.Controller
	mailbox *Mailbox
	keys    KeyMap
	help    help.Model
	table   table.Model
	cfg     OverviewConfig

	// Mirrors of the controller observables, updated by the observers.
	status   model.FetchStatus
	listings []model.Listing
	lastErr  error

	spinning    bool
	unsubscribe []func()
	closeOnce   sync.Once

	width  int
	height int
}

// NewOverviewPage creates the page and its controller. The controller starts
// fetching cfg.DefaultFilter immediately; results are delivered once the page
// is running inside a Bubble Tea program.
func NewOverviewPage(fetcher model.ListingsFetcher, cfg OverviewConfig) *OverviewPage {
	p := &OverviewPage{
		mailbox: NewMailbox(16),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		cfg:     cfg,
	}
	p.table = table.New(
		table.WithColumns(listingColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles()),
	)

	opts := []overview.Option{
		overview.WithScheduler(p.mailbox),
		overview.WithDefaultFilter(cfg.DefaultFilter),
	}
	if cfg.Logger != nil {
		opts = append(opts, overview.WithLogger(cfg.Logger))
	}
	if cfg.EmptyResultDone {
		opts = append(opts, overview.WithEmptyResultDone())
	}
	if cfg.DiscardStale {
		opts = append(opts, overview.WithStaleGuard())
	}

	p.ctrl = overview.New(fetcher, opts...)
	p.status = p.ctrl.Status()
	p.unsubscribe = []func(){
		p.ctrl.ObserveStatus(p.onStatus),
		p.ctrl.ObserveListings(p.onListings),
		p.ctrl.ObserveSelected(p.onSelected),
	}
	return p
}

func (p *OverviewPage) ID() string { return OverviewPageID }

func (p *OverviewPage) Init() tea.Cmd {
	p.spinning = p.status == model.StatusLoading
	if p.spinning {
		return tea.Batch(p.mailbox.Wait(), spinnerTick())
	}
	return p.mailbox.Wait()
}

// Close disposes the controller and stops the mailbox.
func (p *OverviewPage) Close() {
	p.closeOnce.Do(func() {
		for _, unsub := range p.unsubscribe {
			unsub()
		}
		p.ctrl.Dispose()
		p.mailbox.Close()
	})
}

// Controller exposes the page's controller.
func (p *OverviewPage) Controller() *overview.Controller { return p.ctrl }

func (p *OverviewPage) onStatus(s model.FetchStatus) {
	p.status = s
	if s == model.StatusError {
		p.lastErr = p.ctrl.LastError()
	}
}

func (p *OverviewPage) onListings(ls []model.Listing) {
	p.listings = ls
	p.table.SetRows(listingRows(ls))
	p.table.GotoTop()
}

// onSelected opens the detail modal and acknowledges at once so a later
// redraw never navigates twice.
func (p *OverviewPage) onSelected(l *model.Listing) {
	if l == nil {
		return
	}
	p.PushModal(NewDetailModal(*l, p.cfg.ReverseScrollWheel))
	p.ctrl.AcknowledgeSelection()
}

func (p *OverviewPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.resize()

	case mailboxMsg:
		msg.fn()
		cmds = append(cmds, p.mailbox.Wait())

	case SpinnerTickMsg:
		if p.status == model.StatusLoading {
			cmds = append(cmds, spinnerTick())
		} else {
			p.spinning = false
		}

	case tea.KeyMsg:
		cmds = append(cmds, p.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, p.handleMouse(msg))
	}

	if p.status == model.StatusLoading && !p.spinning {
		p.spinning = true
		cmds = append(cmds, spinnerTick())
	}

	return tea.Batch(cmds...), nil
}

func (p *OverviewPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := p.keys
	if key.Matches(msg, k.ForceQuit) {
		p.Close()
		return tea.Quit
	}

	// Modal on stack gets the event first.
	if modal := p.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			p.PopModal()
		}
		return cmd
	}

	switch {
	case key.Matches(msg, k.Quit):
		p.Close()
		return tea.Quit
	case key.Matches(msg, k.Help):
		p.PushModal(NewHelpModal(p.keys, p.cfg.ReverseScrollWheel))
	case key.Matches(msg, k.Up):
		p.table.MoveUp(1)
	case key.Matches(msg, k.Down):
		p.table.MoveDown(1)
	case key.Matches(msg, k.Home):
		p.table.GotoTop()
	case key.Matches(msg, k.End):
		p.table.GotoBottom()
	case key.Matches(msg, k.PageUp):
		p.table.MoveUp(p.table.Height())
	case key.Matches(msg, k.PageDown):
		p.table.MoveDown(p.table.Height())
	case key.Matches(msg, k.Enter):
		p.selectCurrent()
	case key.Matches(msg, k.ShowAll):
		p.ctrl.Refresh(model.ShowAll)
	case key.Matches(msg, k.ShowRent):
		p.ctrl.Refresh(model.ShowRent)
	case key.Matches(msg, k.ShowBuy):
		p.ctrl.Refresh(model.ShowBuy)
	case key.Matches(msg, k.Reload):
		p.ctrl.Refresh(p.ctrl.Filter())
	}
	return nil
}

func (p *OverviewPage) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if modal := p.TopModal(); modal != nil {
		_, cmd := modal.Update(msg)
		return cmd
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	up := msg.Button == tea.MouseButtonWheelUp
	down := msg.Button == tea.MouseButtonWheelDown
	if p.cfg.ReverseScrollWheel {
		up, down = down, up
	}
	switch {
	case up:
		p.table.MoveUp(1)
	case down:
		p.table.MoveDown(1)
	}
	return nil
}

// selectCurrent selects the highlighted row. Rows are only selectable while
// the table is on screen.
func (p *OverviewPage) selectCurrent() {
	if p.status != model.StatusDone {
		return
	}
	i := p.table.Cursor()
	if i < 0 || i >= len(p.listings) {
		return
	}
	p.ctrl.SelectListing(p.listings[i])
}

// resize fits the table to the current body area.
func (p *OverviewPage) resize() {
	tableWidth, _ := p.splitWidth()
	p.table.SetColumns(listingColumns(tableWidth))
	p.table.SetWidth(tableWidth)
	p.table.SetHeight(max(3, p.tableHeight()))
	p.help.Width = max(0, p.width-16) // leave room for the status label
}

func (p *OverviewPage) bodyHeight() int {
	return max(0, p.height-2) // filter bar + status line
}

func (p *OverviewPage) splitWidth() (tableWidth, chartWidth int) {
	if p.width >= chartMinWidth {
		chartWidth = p.width / 3
		return p.width - chartWidth, chartWidth
	}
	return p.width, p.width
}

func (p *OverviewPage) tableHeight() int {
	h := p.bodyHeight() - 2 // table border
	if p.width < chartMinWidth {
		h -= p.stackedChartHeight()
	}
	return h
}

func (p *OverviewPage) stackedChartHeight() int {
	return min(12, p.bodyHeight()/2)
}

func (p *OverviewPage) View(width, height int) string {
	if modal := p.TopModal(); modal != nil {
		return modal.View(width, height)
	}
	if width != p.width || height != p.height {
		p.width, p.height = width, height
		p.resize()
	}

	filterBar := p.renderFilterBar()
	statusLine := p.renderStatusLine()

	var body string
	bodyHeight := p.bodyHeight()
	switch p.status {
	case model.StatusLoading:
		body = renderLoadingPlaceholder(fmt.Sprintf("Loading %s...", p.ctrl.Filter().Title()), width, bodyHeight)
	case model.StatusError:
		body = p.renderErrorBanner(width, bodyHeight)
	default:
		body = p.renderListings(width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, filterBar, body, statusLine)
}

func (p *OverviewPage) renderFilterBar() string {
	brand := lipgloss.NewStyle().
		Foreground(ColorRust).
		Bold(true).
		Padding(0, 1).
		Render("Mars Real Estate")

	current := p.ctrl.Filter()
	tabs := []string{brand}
	for i, f := range model.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Title())
		if f == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (p *OverviewPage) renderStatusLine() string {
	var left string
	switch p.status {
	case model.StatusLoading:
		left = " LOADING "
	case model.StatusError:
		left = lipgloss.NewStyle().Background(ColorRed).Foreground(ColorWhite).Render(" ERROR ")
	default:
		left = fmt.Sprintf(" %d listings ", len(p.listings))
	}

	right := p.help.ShortHelpView(p.keys.ShortHelp())
	gap := max(1, p.width-lipgloss.Width(left)-lipgloss.Width(right))
	return statusBarStyle.Width(max(p.width, 1)).Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

func (p *OverviewPage) renderErrorBanner(width, height int) string {
	msg := "Could not load listings."
	if p.lastErr != nil {
		msg += "\n\n" + p.lastErr.Error()
	}
	msg += "\n\nPress R to retry."
	banner := errorBannerStyle.Width(min(max(width-10, 20), 80)).Render(msg)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, banner)
}

func (p *OverviewPage) renderListings(width, height int) string {
	if len(p.listings) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpStyle.Render("No listings"))
	}

	tableView := sectionStyle.Render(p.table.View())
	tableWidth, chartWidth := p.splitWidth()
	if width >= chartMinWidth {
		chart := renderPriceChart(p.listings, chartWidth, height)
		return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(tableWidth).Render(tableView), chart)
	}
	chart := renderPriceChart(p.listings, chartWidth, p.stackedChartHeight())
	return lipgloss.JoinVertical(lipgloss.Left, tableView, chart)
}

func listingColumns(width int) []table.Column {
	const idW, typeW, priceW = 10, 10, 16
	imgW := max(10, width-idW-typeW-priceW-10)
	return []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Type", Width: typeW},
		{Title: "Price", Width: priceW},
		{Title: "Image", Width: imgW},
	}
}

func listingRows(ls []model.Listing) []table.Row {
	rows := make([]table.Row, 0, len(ls))
	for _, l := range ls {
		kind := "For sale"
		if l.IsRental() {
			kind = "For rent"
		}
		rows = append(rows, table.Row{l.ID, kind, l.DisplayPrice(), l.ImgSrcURL})
	}
	return rows
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorWhite).
		Background(ColorRust).
		Bold(false)
	return s
}

// Package tui provides the terminal user interface for watch mode
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/quartzlab/ntpwire/internal/config"
	"github.com/quartzlab/ntpwire/internal/logger"
	"github.com/quartzlab/ntpwire/internal/transport"
	"github.com/quartzlab/ntpwire/pkg/ntpwire"
)

// Colors
var (
	ColorPrimary = tcell.ColorDodgerBlue
	ColorSuccess = tcell.ColorLimeGreen
	ColorWarning = tcell.ColorOrange
	ColorDanger  = tcell.ColorRed
)

// App represents the TUI application
type App struct {
	app    *tview.Application
	cfg    *config.Config
	client *transport.Client
	log    *logger.Logger

	header      *tview.TextView
	serverTable *tview.Table
	logView     *tview.TextView
	footer      *tview.TextView

	logChan  chan logger.LogEntry
	stopChan chan struct{}
}

// NewApp creates a new TUI application
func NewApp(cfg *config.Config, client *transport.Client) *App {
	a := &App{
		app:      tview.NewApplication(),
		cfg:      cfg,
		client:   client,
		log:      logger.GetLogger(),
		stopChan: make(chan struct{}),
	}
	a.setupUI()
	return a
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.header.SetBackgroundColor(ColorPrimary)
	a.header.SetTextColor(tcell.ColorWhite)
	a.header.SetText(fmt.Sprintf("ntpwire — watching %d servers every %ds",
		len(a.cfg.GetEnabledServers()), a.cfg.Query.Interval))

	a.serverTable = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	a.serverTable.SetBorder(true)
	a.serverTable.SetTitle(" Servers ")
	a.serverTable.SetBorderColor(ColorPrimary)
	a.renderTableHeader()

	a.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(200)
	a.logView.SetBorder(true)
	a.logView.SetTitle(" Log ")

	a.footer = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	a.footer.SetText(" [yellow]r[white] Refresh now │ [yellow]q[white]/[yellow]Esc[white] Quit ")
	a.footer.SetBackgroundColor(tcell.ColorDarkSlateGray)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.serverTable, 0, 3, false).
		AddItem(a.logView, 0, 2, false).
		AddItem(a.footer, 1, 0, false)

	a.app.SetInputCapture(a.handleKeys)
	a.app.SetRoot(flex, true)

	a.logChan = a.log.Subscribe()
	go a.handleLogUpdates()
}

func (a *App) renderTableHeader() {
	headers := []string{"Server", "Leap", "Ver", "Stratum", "Ref ID", "Transmit (UTC)", "RTT", "Verify"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		a.serverTable.SetCell(0, col, cell)
	}
}

// handleKeys processes global keybindings
func (a *App) handleKeys(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEscape,
		event.Rune() == 'q':
		a.Stop()
		return nil
	case event.Rune() == 'r':
		go a.refresh()
		return nil
	}
	return event
}

// refresh queries all servers and redraws the table
func (a *App) refresh() {
	results := a.client.QueryAll()
	a.app.QueueUpdateDraw(func() {
		a.serverTable.Clear()
		a.renderTableHeader()
		for i, res := range results {
			a.renderRow(i+1, res)
		}
	})
}

func (a *App) renderRow(row int, res transport.Result) {
	set := func(col int, text string, color tcell.Color) {
		a.serverTable.SetCell(row, col,
			tview.NewTableCell(text).SetTextColor(color).SetExpansion(1))
	}

	if res.Err != nil {
		set(0, res.Server, ColorDanger)
		set(1, "query failed", ColorDanger)
		for col := 2; col < 8; col++ {
			set(col, "-", ColorDanger)
		}
		return
	}

	p := res.Packet
	rowColor := tcell.ColorWhite
	if p.IsKissOfDeath() {
		rowColor = ColorWarning
	}

	set(0, res.Server, rowColor)
	set(1, p.Leap.String(), leapColor(p.Leap))
	set(2, fmt.Sprintf("%d", p.Version), rowColor)
	set(3, fmt.Sprintf("%d (%s)", uint8(p.Stratum), p.Stratum.Class()), rowColor)
	set(4, p.ReferenceIDString(), rowColor)
	set(5, p.XmitTime.Time().UTC().Format("15:04:05.000"), rowColor)
	set(6, res.RTT.Round(time.Millisecond).String(), rowColor)
	set(7, verifyText(res.Crosscheck), rowColor)
}

func leapColor(li ntpwire.LeapIndicator) tcell.Color {
	switch li {
	case ntpwire.LeapNoWarning:
		return ColorSuccess
	case ntpwire.LeapUnsynchronized:
		return ColorDanger
	default:
		return ColorWarning
	}
}

func verifyText(cc *transport.Crosscheck) string {
	if cc == nil {
		return "-"
	}
	if cc.Agrees() {
		return fmt.Sprintf("ok (Δ %v)", cc.TimeDelta.Round(time.Millisecond))
	}
	return fmt.Sprintf("mismatch (ref stratum %d)", cc.RefStratum)
}

// handleLogUpdates streams log entries into the log view
func (a *App) handleLogUpdates() {
	for {
		select {
		case entry, ok := <-a.logChan:
			if !ok {
				return
			}
			a.app.QueueUpdateDraw(func() {
				fmt.Fprintln(a.logView, logger.FormatEntry(entry))
				a.logView.ScrollToEnd()
			})
		case <-a.stopChan:
			return
		}
	}
}

// refreshLoop re-queries on the configured interval
func (a *App) refreshLoop() {
	a.refresh()

	ticker := time.NewTicker(time.Duration(a.cfg.Query.Interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refresh()
		case <-a.stopChan:
			return
		}
	}
}

// Run starts the TUI and blocks until quit
func (a *App) Run() error {
	go a.refreshLoop()
	return a.app.Run()
}

// Stop shuts the TUI down
func (a *App) Stop() {
	close(a.stopChan)
	a.log.Unsubscribe(a.logChan)
	a.app.Stop()
}

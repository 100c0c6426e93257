// Package tui is the operator console over the banking transactions API.
// The model follows the usual Elm shape: all session state lives on App,
// every dispatch runs as a tea.Cmd, and each interaction re-renders the full
// view. One dispatch at a time; the busy flag blocks further calls until the
// current one resolves.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankscope/internal/api"
	"github.com/jask/bankscope/internal/config"
	"github.com/jask/bankscope/internal/history"
)

type view string

const (
	viewOverview     view = "overview"
	viewTransactions view = "transactions"
	viewSearch       view = "search"
	viewFraud        view = "fraud"
	viewCustomers    view = "customers"
	viewRoutes       view = "routes"
	viewHistory      view = "history"
)

// editTarget names the field currently owning the shared text input.
type editTarget string

const (
	editNone       editTarget = ""
	editMinAmount  editTarget = "minAmount"
	editMaxAmount  editTarget = "maxAmount"
	editAmount     editTarget = "amount"
	editOldBalance editTarget = "oldBalance"
	editNewBalance editTarget = "newBalance"
	editCustomerID editTarget = "customerID"
	editRouteQuery editTarget = "routeQuery"
	editRouteArg   editTarget = "routeArg"
	editParams     editTarget = "params"
)

// App is the console model.
type App struct {
	ctx    context.Context
	client *api.Client
	store  *history.Store // nil disables request logging
	cfg    config.Config
	keys   keyMap

	state  view
	width  int
	height int

	// backend header line
	alive   bool
	probed  bool
	version string

	busy   bool
	spin   spinner.Model
	status string

	// shared single-line editor
	input   textinput.Model
	editing editTarget

	// last dispatch outcome, rendered by every view
	last      api.Result
	lastLabel string
	lastTook  time.Duration

	// listing/search criteria
	filters api.Filters
	cursor  int

	// fraud prediction form and verdict
	predict api.PredictRequest
	verdict *api.PredictResponse

	// overview bundle
	overview     api.Result
	fraudSummary api.Result
	fraudByType  api.Result

	// customers criteria
	customerID string
	topBy      string

	// routes view
	routeCat    int
	routeQuery  string
	routeCursor int
	routeArg    string
	paramsText  string

	entries []history.Entry
}

// New builds the console. store may be nil when the history database could
// not be opened; the console still works, it just stops logging.
func New(ctx context.Context, cfg config.Config, client *api.Client, store *history.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	in := textinput.New()
	in.CharLimit = 256
	in.Width = 48

	f := api.DefaultFilters()
	if cfg.UI.PageLimit > 0 {
		f.Limit = cfg.UI.PageLimit
	}

	return &App{
		ctx:     ctx,
		client:  client,
		store:   store,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		state:   viewOverview,
		spin:    sp,
		input:   in,
		filters: f,
		predict: api.PredictRequest{
			Type:           api.TypePayment,
			Amount:         1000,
			OldBalanceOrg:  5000,
			NewBalanceOrig: 4000,
		},
		topBy: "volume",
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.probeCmd(), a.overviewCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case tea.KeyMsg:
		if a.editing != editNone {
			return a.handleEditKey(m)
		}
		return a.handleKey(m)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd

	case bootMsg:
		a.probed = true
		a.alive = m.alive
		a.version = m.version
		return a, nil

	case resultMsg:
		a.busy = false
		a.last = m.res
		a.lastLabel = m.label
		a.lastTook = m.took
		if m.res.OK() {
			a.status = ""
		} else {
			a.status = m.res.Err.Error()
		}
		return a, nil

	case overviewMsg:
		a.busy = false
		a.overview = m.overview
		a.fraudSummary = m.fraudSummary
		a.fraudByType = m.fraudByType
		a.status = ""
		for _, res := range []api.Result{m.overview, m.fraudSummary, m.fraudByType} {
			if !res.OK() {
				a.status = res.Err.Error()
				break
			}
		}
		return a, nil

	case predictMsg:
		a.busy = false
		if m.err != nil {
			a.verdict = nil
			a.status = m.err.Error()
			return a, nil
		}
		v := m.verdict
		a.verdict = &v
		a.status = ""
		return a, nil

	case historyMsg:
		a.busy = false
		a.entries = m
		return a, nil

	case statusMsg:
		a.busy = false
		a.status = string(m)
		return a, nil

	case errMsg:
		a.busy = false
		a.status = "error: " + m.Error()
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Overview):
		a.switchView(viewOverview)
		return a.startDispatch(a.overviewCmd())
	case key.Matches(m, a.keys.Transactions):
		a.switchView(viewTransactions)
		return a, nil
	case key.Matches(m, a.keys.Search):
		a.switchView(viewSearch)
		return a, nil
	case key.Matches(m, a.keys.Fraud):
		a.switchView(viewFraud)
		return a, nil
	case key.Matches(m, a.keys.Customers):
		a.switchView(viewCustomers)
		return a, nil
	case key.Matches(m, a.keys.Routes):
		a.switchView(viewRoutes)
		return a, nil
	case key.Matches(m, a.keys.History):
		a.switchView(viewHistory)
		return a.startDispatch(a.historyCmd())
	case key.Matches(m, a.keys.Probe):
		return a, a.probeCmd()
	case key.Matches(m, a.keys.Export):
		return a, a.exportCmd()
	}

	switch a.state {
	case viewTransactions:
		return a.handleTransactionsKey(m)
	case viewSearch:
		return a.handleSearchKey(m)
	case viewFraud:
		return a.handleFraudKey(m)
	case viewCustomers:
		return a.handleCustomersKey(m)
	case viewRoutes:
		return a.handleRoutesKey(m)
	case viewHistory:
		if key.Matches(m, a.keys.Fetch) {
			return a.startDispatch(a.historyCmd())
		}
	}
	return a, nil
}

func (a *App) switchView(v view) {
	if a.state != v {
		a.state = v
		a.cursor = 0
		a.routeCursor = 0
		a.status = ""
	}
}

// startDispatch guards the single-action-at-a-time contract: a new call is
// refused while one is outstanding.
func (a *App) startDispatch(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return a, nil
	}
	if a.busy {
		a.status = "request in flight, hold on"
		return a, nil
	}
	a.busy = true
	return a, tea.Batch(a.spin.Tick, cmd)
}

// ---- transactions ----------------------------------------------------------

// transactions form rows: type, fraud, min, max, page, limit
const txFormRows = 6

func (a *App) handleTransactionsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < txFormRows-1 {
			a.cursor++
		}
	case "left", "h":
		a.adjustFilterField(a.cursor, -1)
	case "right", "l":
		a.adjustFilterField(a.cursor, +1)
	case "enter":
		if t, seed := amountEditAt(a.cursor, a.filters); t != editNone {
			a.openEditor(t, seed)
			return a, nil
		}
	case "g":
		r, err := api.Lookup(api.CategoryTransactions, "list")
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		return a.startDispatch(a.dispatchCmd("transactions", r, a.filters.ListingParams()))
	case "n":
		r, err := api.Lookup(api.CategoryTransactions, "recent")
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		return a.startDispatch(a.dispatchCmd("recent transactions", r, api.Params{"n": a.filters.Limit}))
	}
	return a, nil
}

// amountEditAt maps a form cursor onto the editable amount fields.
func amountEditAt(cursor int, f api.Filters) (editTarget, string) {
	switch cursor {
	case 2:
		return editMinAmount, formatAmount(f.MinAmount)
	case 3:
		return editMaxAmount, formatAmount(f.MaxAmount)
	}
	return editNone, ""
}

func (a *App) adjustFilterField(cursor, delta int) {
	switch cursor {
	case 0:
		a.filters.Type = cycleType(a.filters.Type, delta)
	case 1:
		a.filters.Fraud = cycleFraud(a.filters.Fraud, delta)
	case 4:
		if a.state == viewTransactions {
			a.filters.Page += delta
			if a.filters.Page < 1 {
				a.filters.Page = 1
			}
		}
	case 5:
		if a.state == viewTransactions {
			a.filters.Limit = cycleLimit(a.filters.Limit, delta)
		}
	}
}

// ---- search ----------------------------------------------------------------

// search form rows: type, fraud, min, max
const searchFormRows = 4

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < searchFormRows-1 {
			a.cursor++
		}
	case "left", "h":
		a.adjustFilterField(a.cursor, -1)
	case "right", "l":
		a.adjustFilterField(a.cursor, +1)
	case "enter":
		if t, seed := amountEditAt(a.cursor, a.filters); t != editNone {
			a.openEditor(t, seed)
			return a, nil
		}
	case "g":
		r, err := api.Lookup(api.CategoryTransactions, "search")
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		return a.startDispatch(a.dispatchCmd("search", r, a.filters.SearchBody()))
	}
	return a, nil
}

// ---- fraud -----------------------------------------------------------------

// fraud form rows: type, amount, old balance, new balance
const fraudFormRows = 4

func (a *App) handleFraudKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < fraudFormRows-1 {
			a.cursor++
		}
	case "left", "h":
		if a.cursor == 0 {
			a.predict.Type = cyclePredictType(a.predict.Type, -1)
		}
	case "right", "l":
		if a.cursor == 0 {
			a.predict.Type = cyclePredictType(a.predict.Type, +1)
		}
	case "enter":
		switch a.cursor {
		case 1:
			a.openEditor(editAmount, formatAmount(a.predict.Amount))
		case 2:
			a.openEditor(editOldBalance, formatAmount(a.predict.OldBalanceOrg))
		case 3:
			a.openEditor(editNewBalance, formatAmount(a.predict.NewBalanceOrig))
		}
	case "d":
		return a.startDispatch(a.predictCmd())
	case "g":
		return a.startDispatch(a.fraudStatsCmd())
	}
	return a, nil
}

// ---- customers -------------------------------------------------------------

func (a *App) handleCustomersKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "left", "h":
		if a.filters.Page > 1 {
			a.filters.Page--
		}
	case "right", "l":
		a.filters.Page++
	case "b":
		if a.topBy == "volume" {
			a.topBy = "count"
		} else {
			a.topBy = "volume"
		}
	case "i":
		a.openEditor(editCustomerID, a.customerID)
	case "g":
		r, err := api.Lookup(api.CategoryCustomers, "list")
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		params := api.Params{"page": a.filters.Page, "limit": a.filters.Limit}
		return a.startDispatch(a.dispatchCmd("customers", r, params))
	case "t":
		r, err := api.Lookup(api.CategoryCustomers, "top")
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		params := api.Params{"n": a.filters.Limit, "by": a.topBy}
		return a.startDispatch(a.dispatchCmd("top customers", r, params))
	case "d":
		return a.customerRouteDispatch(api.CategoryCustomers, "get", "customer profile")
	case "s":
		return a.customerRouteDispatch(api.CategoryTransactions, "by-customer", "sent transactions")
	case "r":
		return a.customerRouteDispatch(api.CategoryTransactions, "to-customer", "received transactions")
	}
	return a, nil
}

func (a *App) customerRouteDispatch(cat api.Category, id, label string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(a.customerID) == "" {
		a.status = "set a customer id first ([i])"
		return a, nil
	}
	r, err := api.Lookup(cat, id)
	if err != nil {
		return a, func() tea.Msg { return errMsg{err} }
	}
	resolved := r
	resolved.Endpoint = r.Resolve(a.customerID)
	return a.startDispatch(a.dispatchCmd(label, resolved, nil))
}

// ---- routes ----------------------------------------------------------------

func (a *App) handleRoutesKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := api.Categories()
	switch m.String() {
	case "left", "h":
		a.routeCat = (a.routeCat + len(cats) - 1) % len(cats)
		a.routeCursor = 0
	case "right", "l":
		a.routeCat = (a.routeCat + 1) % len(cats)
		a.routeCursor = 0
	case "up", "k":
		if a.routeCursor > 0 {
			a.routeCursor--
		}
	case "down", "j":
		if a.routeCursor < len(a.visibleRoutes())-1 {
			a.routeCursor++
		}
	case "/":
		a.openEditor(editRouteQuery, a.routeQuery)
	case "a":
		a.openEditor(editRouteArg, a.routeArg)
	case "e":
		a.openEditor(editParams, a.paramsText)
	case "c":
		a.routeQuery, a.routeArg, a.paramsText = "", "", ""
		a.routeCursor = 0
	case "g", "enter":
		return a.dispatchSelectedRoute()
	}
	return a, nil
}

func (a *App) visibleRoutes() []api.Route {
	return rankRoutes(api.Routes(api.Categories()[a.routeCat]), a.routeQuery)
}

func (a *App) dispatchSelectedRoute() (tea.Model, tea.Cmd) {
	routes := a.visibleRoutes()
	if len(routes) == 0 {
		a.status = "no route selected"
		return a, nil
	}
	if a.routeCursor >= len(routes) {
		a.routeCursor = len(routes) - 1
	}
	r := routes[a.routeCursor]

	// Decode user params before anything touches the network.
	var params api.Params
	if text := strings.TrimSpace(a.paramsText); text != "" {
		decoded, err := api.DecodeParams(text)
		if err != nil {
			a.last = api.Result{Err: api.Classify(err)}
			a.lastLabel = r.String()
			a.status = a.last.Err.Error()
			return a, nil
		}
		params = decoded
	}

	if r.NeedsArg() {
		arg := strings.TrimSpace(a.routeArg)
		if arg == "" {
			a.status = "route needs an id, set one with [a]"
			return a, nil
		}
		r.Endpoint = r.Resolve(arg)
	}
	return a.startDispatch(a.dispatchCmd(r.String(), r, params))
}

// ---- shared editor ---------------------------------------------------------

func (a *App) openEditor(target editTarget, seed string) {
	a.editing = target
	a.input.SetValue(seed)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) closeEditor() {
	a.editing = editNone
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) handleEditKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.closeEditor()
		return a, nil
	case tea.KeyEnter:
		a.commitEditor()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) commitEditor() {
	value := strings.TrimSpace(a.input.Value())
	target := a.editing

	switch target {
	case editCustomerID:
		a.customerID = value
	case editRouteQuery:
		a.routeQuery = value
		a.routeCursor = 0
	case editRouteArg:
		a.routeArg = value
	case editParams:
		a.paramsText = value
	default:
		n, err := parseAmount(value)
		if err != nil {
			a.status = "enter a non-negative number"
			return
		}
		switch target {
		case editMinAmount:
			a.filters.MinAmount = n
		case editMaxAmount:
			a.filters.MaxAmount = n
		case editAmount:
			a.predict.Amount = n
		case editOldBalance:
			a.predict.OldBalanceOrg = n
		case editNewBalance:
			a.predict.NewBalanceOrig = n
		}
	}
	a.status = ""
	a.closeEditor()
}

// ---- small helpers ---------------------------------------------------------

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func formatAmount(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cycleType(current string, delta int) string {
	options := append([]string{api.TypeAny}, api.TransactionTypes()...)
	return cycleString(options, current, delta)
}

func cyclePredictType(current string, delta int) string {
	return cycleString(api.TransactionTypes(), current, delta)
}

func cycleString(options []string, current string, delta int) string {
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	return options[idx]
}

func cycleFraud(current api.FraudFilter, delta int) api.FraudFilter {
	options := []api.FraudFilter{api.FraudAny, api.FraudOnly, api.FraudExclude}
	idx := int(current)
	idx = (idx + delta + len(options)) % len(options)
	return options[idx]
}

func cycleLimit(current, delta int) int {
	idx := 0
	for i, l := range api.Limits {
		if l == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(api.Limits)) % len(api.Limits)
	return api.Limits[idx]
}

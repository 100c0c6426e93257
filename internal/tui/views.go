package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/bankscope/internal/api"
	"github.com/jask/bankscope/internal/export"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Bold(true)
)

const maxResultLines = 18

func (a *App) View() string {
	var body string
	switch a.state {
	case viewTransactions:
		body = a.renderTransactions()
	case viewSearch:
		body = a.renderSearch()
	case viewFraud:
		body = a.renderFraud()
	case viewCustomers:
		body = a.renderCustomers()
	case viewRoutes:
		body = a.renderRoutes()
	case viewHistory:
		body = a.renderHistory()
	default:
		body = a.renderOverview()
	}

	out := a.renderHeader() + "\n\n" + body
	if a.editing != editNone {
		out += "\n\n" + a.renderEditor()
	}
	if a.busy {
		out += "\n\n" + a.spin.View() + " working..."
	}
	if a.status != "" {
		out += "\n\n" + badStyle.Render(a.status)
	}
	out += "\n\n" + dimStyle.Render("[1] overview  [2] transactions  [3] search  [4] fraud  [5] customers  [6] routes  [7] history  [p] probe  [x] export  [q] quit")
	return out
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("Bankscope - Banking API Console")
	state := dimStyle.Render("probing...")
	if a.probed {
		if a.alive {
			state = okStyle.Render("backend up")
			if a.version != "" {
				state += dimStyle.Render(" v" + a.version)
			}
		} else {
			state = badStyle.Render("backend unreachable")
		}
	}
	return fmt.Sprintf("%s\n%s  %s", title, state, dimStyle.Render(a.client.BaseURL()))
}

func (a *App) renderEditor() string {
	labels := map[editTarget]string{
		editMinAmount:  "minimum amount (empty clears)",
		editMaxAmount:  "maximum amount (empty clears)",
		editAmount:     "amount",
		editOldBalance: "balance before (origin)",
		editNewBalance: "balance after (origin)",
		editCustomerID: "customer id (e.g. C1231006815)",
		editRouteQuery: "filter routes",
		editRouteArg:   "path id",
		editParams:     "params JSON (e.g. {\"page\": 1})",
	}
	return fmt.Sprintf("%s\n%s\n%s", titleStyle.Render(labels[a.editing]), a.input.View(), dimStyle.Render("[enter] apply  [esc] cancel"))
}

// ---- overview --------------------------------------------------------------

func (a *App) renderOverview() string {
	out := titleStyle.Render("System Overview") + "\n"

	if a.overview.Payload == nil && a.overview.Err == nil {
		return out + "loading..."
	}
	if !a.overview.OK() {
		return out + badStyle.Render("overview: "+a.overview.Err.Error())
	}

	out += fmt.Sprintf("Total transactions: %s\n", numField(a.overview.Payload, "total_transactions"))
	out += fmt.Sprintf("Fraud rate:         %s\n", pctField(a.overview.Payload, "fraud_rate"))
	out += fmt.Sprintf("Average amount:     $%s\n", numField(a.overview.Payload, "avg_amount"))
	out += fmt.Sprintf("Most common type:   %s\n", strField(a.overview.Payload, "most_common_type"))

	if a.fraudSummary.OK() {
		out += "\n" + titleStyle.Render("Fraud Summary") + "\n"
		out += fmt.Sprintf("Total frauds: %s  Flagged: %s  Precision: %s  Recall: %s\n",
			numField(a.fraudSummary.Payload, "total_frauds"),
			numField(a.fraudSummary.Payload, "flagged"),
			pctField(a.fraudSummary.Payload, "precision"),
			pctField(a.fraudSummary.Payload, "recall"))
	}
	if a.fraudByType.OK() {
		out += "\n" + titleStyle.Render("Fraud by Type") + "\n"
		out += renderTable(a.fraudByType.Payload, 8)
	}
	out += "\n" + dimStyle.Render("[1] refresh")
	return out
}

// ---- filter forms ----------------------------------------------------------

func (a *App) renderTransactions() string {
	out := titleStyle.Render("Transactions") + "\n"
	rows := []string{
		fmt.Sprintf("type        < %s >", a.filters.Type),
		fmt.Sprintf("fraud       < %s >", a.filters.Fraud),
		fmt.Sprintf("min amount  %s", amountLabel(a.filters.MinAmount)),
		fmt.Sprintf("max amount  %s", amountLabel(a.filters.MaxAmount)),
		fmt.Sprintf("page        < %d >", a.filters.Page),
		fmt.Sprintf("limit       < %d >", a.filters.Limit),
	}
	out += a.renderForm(rows)
	out += dimStyle.Render("[g] fetch page  [n] recent  [enter] edit amounts  arrows adjust") + "\n"
	return out + a.renderResult()
}

func (a *App) renderSearch() string {
	out := titleStyle.Render("Advanced Search") + "\n"
	rows := []string{
		fmt.Sprintf("type        < %s >", a.filters.Type),
		fmt.Sprintf("fraud       < %s >", a.filters.Fraud),
		fmt.Sprintf("min amount  %s", amountLabel(a.filters.MinAmount)),
		fmt.Sprintf("max amount  %s", amountLabel(a.filters.MaxAmount)),
	}
	out += a.renderForm(rows)
	out += dimStyle.Render("[g] search  [enter] edit amounts  arrows adjust") + "\n"
	return out + a.renderResult()
}

func (a *App) renderForm(rows []string) string {
	var b strings.Builder
	for i, row := range rows {
		marker := "  "
		if i == a.cursor {
			marker = cursorStyle.Render("> ")
			row = cursorStyle.Render(row)
		}
		b.WriteString(marker + row + "\n")
	}
	return b.String()
}

// ---- fraud -----------------------------------------------------------------

func (a *App) renderFraud() string {
	out := titleStyle.Render("Fraud Prediction") + "\n"
	rows := []string{
		fmt.Sprintf("type            < %s >", a.predict.Type),
		fmt.Sprintf("amount          %s", formatMoney(a.predict.Amount)),
		fmt.Sprintf("balance before  %s", formatMoney(a.predict.OldBalanceOrg)),
		fmt.Sprintf("balance after   %s", formatMoney(a.predict.NewBalanceOrig)),
	}
	out += a.renderForm(rows)
	out += dimStyle.Render("[d] predict  [g] fraud by type  [enter] edit field") + "\n"

	if a.verdict != nil {
		out += "\n"
		if a.verdict.IsFraud {
			out += badStyle.Render("SUSPICIOUS TRANSACTION") + "\n"
		} else {
			out += okStyle.Render("Looks legitimate") + "\n"
		}
		out += fmt.Sprintf("Fraud probability: %.1f%%\n", a.verdict.Probability*100)
		for _, reason := range a.verdict.Reasons {
			out += "  - " + reason + "\n"
		}
	}
	return out + a.renderResult()
}

// ---- customers -------------------------------------------------------------

func (a *App) renderCustomers() string {
	out := titleStyle.Render("Customers") + "\n"
	id := a.customerID
	if id == "" {
		id = dimStyle.Render("(not set)")
	}
	out += fmt.Sprintf("page %d  limit %d  top-by %s  customer %s\n", a.filters.Page, a.filters.Limit, a.topBy, id)
	out += dimStyle.Render("[g] list  [t] top  [b] toggle top-by  [i] set id  [d] profile  [s] sent  [r] received  arrows page") + "\n"
	return out + a.renderResult()
}

// ---- routes ----------------------------------------------------------------

func (a *App) renderRoutes() string {
	cats := api.Categories()
	cat := cats[a.routeCat]
	out := titleStyle.Render("Route Console") + "\n"
	out += fmt.Sprintf("category < %s >", cat)
	if a.routeQuery != "" {
		out += dimStyle.Render("  filter: " + a.routeQuery)
	}
	out += "\n"

	routes := a.visibleRoutes()
	if len(routes) == 0 {
		out += dimStyle.Render("  no routes match") + "\n"
	}
	for i, r := range routes {
		marker := "  "
		line := fmt.Sprintf("%-6s /%s", r.Method, r.Endpoint)
		if i == a.routeCursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		out += marker + line + "\n"
	}

	arg := a.routeArg
	if arg == "" {
		arg = dimStyle.Render("(none)")
	}
	params := a.paramsText
	if params == "" {
		params = dimStyle.Render("(none)")
	}
	out += fmt.Sprintf("path id: %s   params: %s\n", arg, params)
	out += dimStyle.Render("[enter] dispatch  [/] filter  [a] path id  [e] params JSON  [c] clear  arrows move") + "\n"
	return out + a.renderResult()
}

// ---- history ---------------------------------------------------------------

func (a *App) renderHistory() string {
	out := titleStyle.Render("Request History") + "\n"
	if a.store == nil {
		return out + dimStyle.Render("history is disabled (no writable data directory)")
	}
	if len(a.entries) == 0 {
		return out + dimStyle.Render("no requests recorded yet  [g] reload")
	}
	for _, e := range a.entries {
		outcome := e.Outcome
		if e.StatusCode != 0 {
			outcome = fmt.Sprintf("%s %d", e.Outcome, e.StatusCode)
		}
		line := fmt.Sprintf("%s  %-4s /%-34s %-12s %4dms", e.OccurredAt.Format("02/01 15:04:05"), e.Method, e.Endpoint, outcome, e.DurationMS)
		if e.Outcome == "ok" {
			out += line + "\n"
		} else {
			out += badStyle.Render(line) + "\n"
		}
	}
	out += dimStyle.Render("[g] reload")
	return out
}

// ---- result pane -----------------------------------------------------------

func (a *App) renderResult() string {
	if a.last.Payload == nil && a.last.Err == nil {
		return ""
	}
	out := "\n" + titleStyle.Render("Result")
	if a.lastLabel != "" {
		out += dimStyle.Render(fmt.Sprintf("  %s (%dms)", a.lastLabel, a.lastTook.Milliseconds()))
	}
	out += "\n"

	if !a.last.OK() {
		return out + badStyle.Render(a.last.Err.Error()) + "\n"
	}
	if rows, ok := tabularPayload(a.last.Payload); ok {
		if obj, isObj := a.last.Payload.(map[string]any); isObj {
			for _, k := range []string{"total", "count"} {
				if _, present := obj[k]; present {
					out += dimStyle.Render(fmt.Sprintf("%s: %s", k, numField(obj, k))) + "\n"
					break
				}
			}
		}
		return out + renderTable(rows, maxResultLines)
	}
	return out + renderJSON(a.last.Payload)
}

// renderTable lays a list of records out as aligned columns, clipped to
// maxRows data rows.
func renderTable(payload any, maxRows int) string {
	headers, rows, err := export.Rows(payload)
	if err != nil {
		return renderJSON(payload)
	}
	clipped := false
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		clipped = true
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	pad := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render(pad(headers)) + "\n")
	for _, row := range rows {
		b.WriteString(pad(row) + "\n")
	}
	if clipped {
		b.WriteString(dimStyle.Render("...") + "\n")
	}
	return b.String()
}

func renderJSON(payload any) string {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v\n", payload)
	}
	lines := strings.Split(string(raw), "\n")
	if len(lines) > maxResultLines {
		lines = append(lines[:maxResultLines], dimStyle.Render("..."))
	}
	return strings.Join(lines, "\n") + "\n"
}

// ---- payload field helpers -------------------------------------------------

func strField(payload any, key string) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "n/a"
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return "n/a"
}

func numField(payload any, key string) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "n/a"
	}
	if n, ok := obj[key].(float64); ok {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.2f", n)
	}
	return "n/a"
}

func pctField(payload any, key string) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "n/a"
	}
	if n, ok := obj[key].(float64); ok {
		return fmt.Sprintf("%.3f%%", n*100)
	}
	return "n/a"
}

func formatMoney(f float64) string {
	return fmt.Sprintf("$%.2f", f)
}

func amountLabel(f float64) string {
	if f <= 0 {
		return dimStyle.Render("(any)")
	}
	return formatMoney(f)
}

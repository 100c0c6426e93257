package tui

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankscope/internal/api"
	"github.com/jask/bankscope/internal/export"
	"github.com/jask/bankscope/internal/history"
)

// messages
type bootMsg struct {
	alive   bool
	version string
}

type resultMsg struct {
	label string
	res   api.Result
	took  time.Duration
}

type overviewMsg struct {
	overview     api.Result
	fraudSummary api.Result
	fraudByType  api.Result
}

type predictMsg struct {
	verdict api.PredictResponse
	err     error
}

type historyMsg []history.Entry

type statusMsg string

type errMsg struct{ error }

// probeCmd checks liveness and grabs backend metadata for the header.
func (a *App) probeCmd() tea.Cmd {
	return func() tea.Msg {
		alive := a.client.ProbeLiveness(a.ctx)
		version := ""
		if alive {
			if meta, err := a.client.FetchMetadata(a.ctx); err == nil {
				version = meta.Version
			}
		}
		return bootMsg{alive: alive, version: version}
	}
}

// dispatchCmd runs one call against the backend and logs it. The command
// always resolves to a resultMsg; classification lives inside the Result.
func (a *App) dispatchCmd(label string, r api.Route, params api.Params) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res := a.client.Dispatch(a.ctx, r, params)
		took := time.Since(start)
		a.logDispatch(r.Method, r.Endpoint, params, res, took)
		return resultMsg{label: label, res: res, took: took}
	}
}

// overviewCmd fetches the dashboard bundle. Three sequential calls, still one
// user action; partial failures land in the individual Results.
func (a *App) overviewCmd() tea.Cmd {
	return func() tea.Msg {
		var m overviewMsg
		for _, part := range []struct {
			endpoint string
			dst      *api.Result
		}{
			{"stats/overview", &m.overview},
			{"fraud/summary", &m.fraudSummary},
			{"fraud/by-type", &m.fraudByType},
		} {
			start := time.Now()
			payload, err := a.client.Get(a.ctx, part.endpoint, nil)
			res := api.Result{Payload: payload, Err: api.Classify(err)}
			a.logDispatch("GET", part.endpoint, nil, res, time.Since(start))
			*part.dst = res
		}
		return m
	}
}

// fraudStatsCmd refreshes the fraud view's summary tables.
func (a *App) fraudStatsCmd() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		payload, err := a.client.Get(a.ctx, "fraud/by-type", nil)
		res := api.Result{Payload: payload, Err: api.Classify(err)}
		took := time.Since(start)
		a.logDispatch("GET", "fraud/by-type", nil, res, took)
		return resultMsg{label: "fraud by type", res: res, took: took}
	}
}

// predictCmd scores the prediction form.
func (a *App) predictCmd() tea.Cmd {
	req := a.predict
	return func() tea.Msg {
		start := time.Now()
		verdict, err := a.client.PredictFraud(a.ctx, req)
		res := api.Result{Err: api.Classify(err)}
		a.logDispatch("POST", "fraud/predict", api.Params{
			"type":           req.Type,
			"amount":         req.Amount,
			"oldbalanceOrg":  req.OldBalanceOrg,
			"newbalanceOrig": req.NewBalanceOrig,
		}, res, time.Since(start))
		return predictMsg{verdict: verdict, err: err}
	}
}

// historyCmd loads the most recent request log entries.
func (a *App) historyCmd() tea.Cmd {
	if a.store == nil {
		return func() tea.Msg { return statusMsg("request history is disabled") }
	}
	return func() tea.Msg {
		entries, err := a.store.Recent(a.ctx, 50)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(entries)
	}
}

// exportCmd writes the last tabular payload to a timestamped CSV file.
func (a *App) exportCmd() tea.Cmd {
	res := a.last
	dir := a.cfg.UI.ExportDir
	return func() tea.Msg {
		if !res.OK() {
			return statusMsg("nothing to export")
		}
		rows, ok := tabularPayload(res.Payload)
		if !ok {
			return statusMsg("last result is not tabular")
		}
		path := filepath.Join(dir, fmt.Sprintf("bankscope-%s.csv", time.Now().Format("20060102-150405")))
		if err := export.Save(path, rows); err != nil {
			return errMsg{err}
		}
		return statusMsg("exported to " + path)
	}
}

// tabularPayload digs the exportable record list out of a payload: either a
// bare array of objects or the conventional list envelopes.
func tabularPayload(payload any) (any, bool) {
	if list, ok := payload.([]any); ok {
		return list, len(list) > 0
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range []string{"transactions", "customers"} {
		if list, ok := obj[k].([]any); ok && len(list) > 0 {
			return list, true
		}
	}
	return nil, false
}

// logDispatch records one call in the history store. Logging is best effort;
// a failed insert never disturbs the action that triggered it.
func (a *App) logDispatch(method, endpoint string, params api.Params, res api.Result, took time.Duration) {
	if a.store == nil {
		return
	}
	e := history.Entry{
		Method:     method,
		Endpoint:   endpoint,
		Outcome:    outcomeFor(res),
		DurationMS: took.Milliseconds(),
	}
	if res.Err != nil && res.Err.Kind == api.KindHTTP {
		e.StatusCode = res.Err.StatusCode
	}
	if len(params) > 0 {
		if raw, err := json.Marshal(params); err == nil {
			e.Params = string(raw)
		}
	}
	_ = a.store.Record(a.ctx, e)
}

func outcomeFor(res api.Result) string {
	if res.OK() {
		return history.OutcomeOK
	}
	switch res.Err.Kind {
	case api.KindInvalidInput:
		return history.OutcomeInvalidInput
	case api.KindHTTP:
		return history.OutcomeHTTP
	default:
		return history.OutcomeTransport
	}
}

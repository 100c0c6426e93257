package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// Transaction types the backend recognises.
const (
	TypePayment  = "PAYMENT"
	TypeTransfer = "TRANSFER"
	TypeCashOut  = "CASH_OUT"
	TypeDebit    = "DEBIT"
	TypeCashIn   = "CASH_IN"
)

// TransactionTypes returns the known types in the backend's order.
func TransactionTypes() []string {
	return []string{TypePayment, TypeTransfer, TypeCashOut, TypeDebit, TypeCashIn}
}

// PredictRequest is the fraud/predict body. The balance field casing is the
// backend's, inherited from the PaySim dataset columns.
type PredictRequest struct {
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	OldBalanceOrg  float64 `json:"oldbalanceOrg"`
	NewBalanceOrig float64 `json:"newbalanceOrig"`
}

// PredictResponse is the fraud/predict verdict.
type PredictResponse struct {
	IsFraud     bool     `json:"isFraud"`
	Probability float64  `json:"probability"`
	Reasons     []string `json:"reasons"`
}

// PredictFraud scores one hypothetical transaction.
func (c *Client) PredictFraud(ctx context.Context, req PredictRequest) (PredictResponse, error) {
	body := Params{
		"type":           req.Type,
		"amount":         req.Amount,
		"oldbalanceOrg":  req.OldBalanceOrg,
		"newbalanceOrig": req.NewBalanceOrig,
	}
	payload, err := c.Post(ctx, "fraud/predict", body)
	if err != nil {
		return PredictResponse{}, err
	}
	var out PredictResponse
	if err := decodeInto(payload, &out); err != nil {
		return PredictResponse{}, err
	}
	return out, nil
}

// SearchResult is the transactions/search response shape.
type SearchResult struct {
	Count        int              `json:"count"`
	Transactions []map[string]any `json:"transactions"`
}

// SearchTransactions runs the multi-criterion search with the composed body.
func (c *Client) SearchTransactions(ctx context.Context, f Filters) (SearchResult, error) {
	payload, err := c.Post(ctx, "transactions/search", f.SearchBody())
	if err != nil {
		return SearchResult{}, err
	}
	var out SearchResult
	if err := decodeInto(payload, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// Metadata is the slice of system/metadata the console displays.
type Metadata struct {
	Version string `json:"version"`
	Name    string `json:"name"`
}

// FetchMetadata reads backend metadata for the header line.
func (c *Client) FetchMetadata(ctx context.Context) (Metadata, error) {
	payload, err := c.Get(ctx, "system/metadata", nil)
	if err != nil {
		return Metadata{}, err
	}
	var out Metadata
	if err := decodeInto(payload, &out); err != nil {
		return Metadata{}, err
	}
	return out, nil
}

// decodeInto round-trips an untyped payload into a typed view. A mismatched
// shape is the caller's problem to render, so it stays classified as a
// transport-level decode failure rather than panicking.
func decodeInto(payload, dst any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("re-encode payload: %v", err)}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("decode payload: %v", err)}
	}
	return nil
}

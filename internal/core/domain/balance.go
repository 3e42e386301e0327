package domain

import "github.com/SscSPs/bookkeeping_app/pkg/money"

// RunningBalanceLine pairs a transaction with the cumulative account balance
// after applying it. Sequences of these are the sole input to statement
// generation.
type RunningBalanceLine struct {
	Transaction Transaction `json:"transaction"`
	Balance     money.Money `json:"balance"`
}

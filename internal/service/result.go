package service

import "errors"

// IssueKind classifies a blocking or confirmable condition found while
// validating an engine operation.
type IssueKind string

const (
	// IssueValidation: missing header field, empty doc, wrong location
	// cardinality for the doc type. Always blocks.
	IssueValidation IssueKind = "validation"
	// IssueStockConflict: a quantity would go negative. Soft (confirmable)
	// unless it is an order-bound outbound oversell.
	IssueStockConflict IssueKind = "stock_conflict"
	// IssueState: already closed, terminal container, stale caller state.
	IssueState IssueKind = "state"
	// IssueConcurrency: serialization conflict that survived the retry bound.
	IssueConcurrency IssueKind = "concurrency"
)

type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// CloseResult is the tagged outcome of TryClose. Success=false with only
// Warnings means phase one of the two-phase protocol: the caller must
// re-invoke with allowNegative=true after explicit confirmation.
type CloseResult struct {
	Success  bool    `json:"success"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *CloseResult) addError(kind IssueKind, msg string) {
	r.Errors = append(r.Errors, Issue{Kind: kind, Message: msg})
}

func (r *CloseResult) addWarning(kind IssueKind, msg string) {
	r.Warnings = append(r.Warnings, Issue{Kind: kind, Message: msg})
}

func (r *CloseResult) blocked() bool { return len(r.Errors) > 0 }

// Sentinel engine errors. Handlers map these onto HTTP statuses; callers may
// test them with errors.Is.
var (
	ErrNotDraft         = errors.New("document is not in draft status")
	ErrRecountRequested = errors.New("recount requested: document is locked for editing")
	ErrOrderBoundLines  = errors.New("lines of an order-bound outbound document are derived from the order")
	ErrHuTerminal       = errors.New("handling unit is closed or void")
	ErrHuNotEmpty       = errors.New("handling unit still carries stock")
	ErrShippedDirect    = errors.New("shipped status is set by the engine, not by callers")
	ErrLocationInUse    = errors.New("location still holds stock")
	ErrTxConflict       = errors.New("transaction serialization conflict, retry the operation")
)

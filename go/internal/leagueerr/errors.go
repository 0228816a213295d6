package leagueerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the caller can present a precise message
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthorization     Kind = "authorization"
	KindState             Kind = "state"
	KindConflict          Kind = "conflict"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindNotFound          Kind = "not_found"
	KindMarketClosed      Kind = "market_closed"
	KindPersistence       Kind = "persistence"
)

// Error is the typed result returned by every engine operation on failure
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so a sentinel compares equal to any copy made with WithMessage
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation
var (
	ErrInvalidAmount   = newError(KindValidation, "invalid_amount", "amount must be greater than 0")
	ErrInvalidRange    = newError(KindValidation, "invalid_range", "invalid time range")
	ErrSameTeam        = newError(KindValidation, "same_team", "teams must be different")
	ErrInvalidTenant   = newError(KindValidation, "invalid_tenant", "invalid tenant id")
	ErrInvalidDecision = newError(KindValidation, "invalid_decision", "decision must be accept or reject")
	ErrInvalidStatus   = newError(KindValidation, "invalid_status", "invalid status")
	ErrInvalidLimit    = newError(KindValidation, "invalid_limit", "limit must be between 1 and 25")
	ErrInvalidInput    = newError(KindValidation, "invalid_input", "invalid input")
)

// Authorization
var (
	ErrUnauthorized    = newError(KindAuthorization, "unauthorized", "actor is not allowed to perform this operation")
	ErrNotTargetPlayer = newError(KindAuthorization, "not_target_player", "offer is addressed to another player")
	ErrNotManager      = newError(KindAuthorization, "not_manager", "actor does not manage a team")
	ErrTenantBanned    = newError(KindAuthorization, "tenant_banned", "tenant is banned")
)

// State
var (
	ErrInvalidState  = newError(KindState, "invalid_state", "operation is not valid for the current status")
	ErrNoClause      = newError(KindState, "no_clause", "player has no release clause")
	ErrPlayerBanned  = newError(KindState, "player_banned", "player is banned")
	ErrFreeAgent     = newError(KindState, "free_agent", "player is a free agent")
	ErrNoManager     = newError(KindState, "no_manager", "team has no manager")
	ErrAlreadyListed = newError(KindState, "already_listed", "player is already transferable")
	ErrNotListed     = newError(KindState, "not_listed", "player is not transferable")
)

// Conflict
var (
	ErrDuplicateOffer    = newError(KindConflict, "duplicate_offer", "an open offer for this player already exists")
	ErrSlotUnavailable   = newError(KindConflict, "slot_unavailable", "slot is not available")
	ErrTeamExists        = newError(KindConflict, "team_exists", "a team with this name already exists")
	ErrAlreadyManager    = newError(KindConflict, "already_manager", "actor already manages a team")
	ErrAlreadyHasManager = newError(KindConflict, "already_has_manager", "team already has a manager")
	ErrAlreadyRegistered = newError(KindConflict, "already_registered", "player is already registered")
	ErrActorIsManager    = newError(KindConflict, "actor_is_manager", "a manager cannot register as a player")
	ErrActorIsPlayer     = newError(KindConflict, "actor_is_player", "a registered player cannot manage a team")
	ErrAlreadyCaptain    = newError(KindConflict, "already_captain", "actor is already a captain of this team")
)

var ErrInsufficientFunds = newError(KindInsufficientFunds, "insufficient_funds", "insufficient funds")

// NotFound
var (
	ErrNotFound           = newError(KindNotFound, "not_found", "not found")
	ErrTeamNotFound       = newError(KindNotFound, "team_not_found", "team not found")
	ErrPlayerNotFound     = newError(KindNotFound, "player_not_found", "player not found")
	ErrOfferNotFound      = newError(KindNotFound, "offer_not_found", "offer not found")
	ErrTableNotFound      = newError(KindNotFound, "table_not_found", "friendly table not found")
	ErrSlotNotFound       = newError(KindNotFound, "slot_not_found", "slot not found")
	ErrRequestNotFound    = newError(KindNotFound, "request_not_found", "friendly request not found")
	ErrMatchNotFound      = newError(KindNotFound, "match_not_found", "friendly match not found")
	ErrNotCaptain         = newError(KindNotFound, "not_captain", "actor is not a captain of this team")
	ErrScreenshotNotFound = newError(KindNotFound, "screenshot_not_found", "screenshot not found")
)

var ErrMarketClosed = newError(KindMarketClosed, "market_closed", "the transfer market is closed")

// Persistence wraps a storage failure
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Code: "persistence", Message: "storage failure", Err: err}
}

// KindOf returns the kind of err, or KindPersistence when err is not an engine error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// IsBusiness reports whether err is an engine error other than a persistence failure
func IsBusiness(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind != KindPersistence
}

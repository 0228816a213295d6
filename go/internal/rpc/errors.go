package rpc

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
)

// ErrorCodeHeader carries the engine error code on failed responses
const ErrorCodeHeader = "League-Error-Code"

var kindCodes = map[leagueerr.Kind]connect.Code{
	leagueerr.KindValidation:        connect.CodeInvalidArgument,
	leagueerr.KindAuthorization:     connect.CodePermissionDenied,
	leagueerr.KindState:             connect.CodeFailedPrecondition,
	leagueerr.KindConflict:          connect.CodeAlreadyExists,
	leagueerr.KindInsufficientFunds: connect.CodeFailedPrecondition,
	leagueerr.KindNotFound:          connect.CodeNotFound,
	leagueerr.KindMarketClosed:      connect.CodeUnavailable,
	leagueerr.KindPersistence:       connect.CodeInternal,
}

// ToConnectError maps an engine error to a connect error.
// Persistence failures are reported with a generic message.
func ToConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var engineErr *leagueerr.Error
	if !errors.As(err, &engineErr) || engineErr.Kind == leagueerr.KindPersistence {
		cerr := connect.NewError(connect.CodeInternal, errors.New("internal error, please try again later"))
		cerr.Meta().Set(ErrorCodeHeader, "persistence")
		return cerr
	}

	cerr := connect.NewError(kindCodes[engineErr.Kind], errors.New(engineErr.Error()))
	cerr.Meta().Set(ErrorCodeHeader, engineErr.Code)
	return cerr
}

// ErrorCode returns the engine error code carried by a connect error, if any
func ErrorCode(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ErrorCodeHeader)
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/middleware"
)

// toConnectError maps a ledger error to its connect code. Internal failures
// are logged and their detail is kept off the wire.
func toConnectError(op string, err error) error {
	var code connect.Code
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		code = connect.CodeNotFound
	case apperr.ErrForbidden:
		code = connect.CodePermissionDenied
	case apperr.ErrBadRequest:
		code = connect.CodeInvalidArgument
	case apperr.ErrConflict:
		code = connect.CodeAborted
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}

// actorFrom returns the authenticated caller.
func actorFrom(ctx context.Context) (ledger.Actor, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return ledger.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return ledger.Actor{UserID: userID}, nil
}

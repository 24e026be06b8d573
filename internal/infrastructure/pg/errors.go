package pg

import (
	"context"
	"errors"
	"net"
	"strings"

	"realtrade/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// classify wraps err into a domain.StoreError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.NewStoreError(op, kindOf(err), err)
}

func kindOf(err error) domain.StoreErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501", strings.HasPrefix(pgErr.Code, "28"):
			return domain.StoreErrPermissionDenied
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "53300", pgErr.Code == "57P01", pgErr.Code == "57P03":
			return domain.StoreErrUnavailable
		default:
			return domain.StoreErrUnknown
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return domain.StoreErrUnavailable
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return domain.StoreErrUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.StoreErrUnavailable
	}
	if strings.Contains(err.Error(), "closed pool") {
		return domain.StoreErrUnavailable
	}
	return domain.StoreErrUnknown
}

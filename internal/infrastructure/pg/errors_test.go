package pg

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"realtrade/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.StoreErrorKind
	}{
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, domain.StoreErrPermissionDenied},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, domain.StoreErrPermissionDenied},
		{"connection failure", &pgconn.PgError{Code: "08006"}, domain.StoreErrUnavailable},
		{"admin shutdown", fmt.Errorf("query: %w", &pgconn.PgError{Code: "57P01"}), domain.StoreErrUnavailable},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, domain.StoreErrUnknown},
		{"deadline", context.DeadlineExceeded, domain.StoreErrUnavailable},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, domain.StoreErrUnavailable},
		{"closed pool", errors.New("closed pool"), domain.StoreErrUnavailable},
		{"other", errors.New("boom"), domain.StoreErrUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, kindOf(c.err))
		})
	}
}

func TestClassify(t *testing.T) {
	require.NoError(t, classify("append", nil))
	err := classify("append", &pgconn.PgError{Code: "42501"})
	var se *domain.StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "append", se.Op)
	require.Equal(t, domain.StoreErrPermissionDenied, se.Kind)
}

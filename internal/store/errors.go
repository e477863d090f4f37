package store

import (
	"context"
	"errors"
	"net"
	"strings"

	"gamehub/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeStringTooLong       = "22001"
)

// Translate maps driver errors onto apperr kinds. Errors that already carry a
// kind, pgx.ErrNoRows and caller cancellation are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &apperr.Error{Kind: apperr.KindConflict, Message: "Resource already exists", Err: err}
		case codeForeignKeyViolation:
			return &apperr.Error{Kind: apperr.KindNotFound, Message: "Referenced resource not found", Err: err}
		case codeCheckViolation, codeInvalidText, codeStringTooLong:
			return &apperr.Error{Kind: apperr.KindInvalidArgument, Message: "Invalid input", Err: err}
		}
		if isConnectivity(err) {
			return apperr.Unavailable(err)
		}
		return apperr.Internal(err)
	}

	if isConnectivity(err) {
		return apperr.Unavailable(err)
	}
	return apperr.Internal(err)
}

// Constraint returns the violated constraint name, if err came from one.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 53: insufficient resources, 57P: operator intervention
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "53") ||
			strings.HasPrefix(pgErr.Code, "57P")
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// EscapeLike quotes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

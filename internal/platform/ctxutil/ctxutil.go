// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context]:
the request id, the request logger, and the caller's token claims.

Attaching claims also tags the request logger with the caller's id and role
and records them on the request [Trace], so the access log written by the
outermost middleware names the caller even though authentication runs
further down the chain.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// contextKey is unexported so no other package can read or overwrite these values.
type contextKey int

const (
	keyRequestID contextKey = iota
	keyLogger
	keyClaims
	keyTrace
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// Trace collects what the access log needs once the handler chain returns.
type Trace struct {
	UserID int64
	Role   string
}

// WithTrace attaches an empty [Trace] and returns it for reading after the request.
func WithTrace(ctx context.Context) (context.Context, *Trace) {
	trace := &Trace{}
	return context.WithValue(ctx, keyTrace, trace), trace
}

// # Structured Logging

// WithLogger attaches the request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// GetLogger returns the request logger, or [slog.Default] outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(keyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser attaches the caller's claims. The request logger, when present,
// is replaced by one tagged with user_id and role; the request [Trace] is filled.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, keyClaims, claims)
	if claims == nil {
		return ctx
	}

	if trace, ok := ctx.Value(keyTrace).(*Trace); ok {
		trace.UserID = claims.UserID
		trace.Role = claims.Role
	}

	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		ctx = WithLogger(ctx, logger.With(
			slog.Int64("user_id", claims.UserID),
			slog.String("role", claims.Role),
		))
	}
	return ctx
}

// GetAuthUser returns the caller's claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(keyClaims).(*sec.AuthClaims)
	return claims
}

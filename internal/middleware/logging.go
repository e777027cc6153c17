package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// LoggingInterceptor logs each RPC once it completes. Rejected input and
// missing credentials log at warn; anything else that fails logs at error.
// Successful decodes carry their checksum outcome.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("request_id", GetRequestID(ctx)),
				slog.Duration("elapsed", time.Since(start)),
			}
			if subject := GetSubject(ctx); subject != "" {
				attrs = append(attrs, slog.String("subject", subject))
			}
			if protocol := req.Peer().Protocol; protocol != "" {
				attrs = append(attrs, slog.String("protocol", protocol))
			}

			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs,
					slog.String("code", code.String()),
					slog.String("error", rpcMessage(err)),
				)
				slog.LogAttrs(ctx, rpcErrorLevel(code), "RPC failed", attrs...)
				return resp, err
			}

			if view, ok := resp.Any().(*structpb.Struct); ok {
				if v, ok := view.GetFields()["checksum_valid"]; ok {
					attrs = append(attrs, slog.Bool("checksum_valid", v.GetBoolValue()))
				}
			}
			slog.LogAttrs(ctx, slog.LevelInfo, "RPC completed", attrs...)
			return resp, nil
		}
	}
}

func rpcErrorLevel(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeUnauthenticated, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func rpcMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}

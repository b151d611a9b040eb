package idempotency

import (
	"context"
	"encoding/json"
	"errors"

	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/logger"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

// Middleware wraps a handler that creates something. Requests without the
// header pass straight through. If Redis cannot be reached the request is
// served without idempotency rather than failed.
//
// Redis calls use a background context: once the wrapped handler has
// committed, its response must be stored even if the client went away.
func (s *Service) Middleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		key := string(ctx.Request.Header.Peek(HeaderKey))
		if key == "" {
			next(ctx)
			return
		}
		if len(key) > MaxKeyLength {
			writeError(ctx, xhttp.StatusBadRequest, "idempotency key too long", HeaderKey)
			return
		}

		bg := context.Background()
		fp := Fingerprint(string(ctx.Method()), string(ctx.Path()), ctx.PostBody())
		claim, stored, err := s.Begin(bg, key, fp)
		switch {
		case errors.Is(err, ErrInProgress):
			writeError(ctx, xhttp.StatusConflict, err.Error(), HeaderKey)
			return
		case errors.Is(err, ErrKeyReused):
			writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error(), HeaderKey)
			return
		case err != nil:
			logger.Warn("[idempotency] unavailable, serving without it", "key", key, "error", err)
			next(ctx)
			return
		case stored != nil:
			ctx.SetStatusCode(stored.Status)
			ctx.SetContentType(stored.ContentType)
			ctx.Response.Header.Set(HeaderReplayed, "true")
			ctx.SetBody(stored.Body)
			return
		}

		completed := false
		defer func() {
			if !completed {
				_ = s.Release(bg, claim)
			}
		}()

		next(ctx)

		status := ctx.Response.StatusCode()
		if status < 200 || status >= 300 {
			return
		}
		resp := StoredResponse{
			Status:      status,
			ContentType: string(ctx.Response.Header.ContentType()),
			Body:        append([]byte(nil), ctx.Response.Body()...),
		}
		if err := s.Complete(bg, claim, resp); err == nil {
			completed = true
		}
	}
}

func writeError(ctx *xhttp.RequestCtx, status int, msg, field string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]string{"error": msg, "field": field})
	ctx.SetBody(body)
}

package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/internal/services"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/logger"
)

// Routes is satisfied by both *router.Router and *router.Group.
type Routes interface {
	GET(path string, handler xhttp.RequestHandler)
	POST(path string, handler xhttp.RequestHandler)
	DELETE(path string, handler xhttp.RequestHandler)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, errorResponse{Error: msg})
}

func writeFieldError(ctx *xhttp.RequestCtx, field, reason string) {
	writeJSON(ctx, xhttp.StatusBadRequest, errorResponse{Error: field + ": " + reason, Field: field})
}

// writeServiceError maps service errors onto HTTP: validation failures are
// 400 with the field, store failures 503 with Retry-After, the rest 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeFieldError(ctx, ve.Field, ve.Reason)
	case errors.Is(err, services.ErrStoreUnavailable):
		ctx.Response.Header.Set("Retry-After", "1")
		writeError(ctx, xhttp.StatusServiceUnavailable, "transaction store unavailable, retry later")
	default:
		logger.Error("[http] unexpected error", "path", string(ctx.Path()), "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, xhttp.StatusText(xhttp.StatusInternalServerError))
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

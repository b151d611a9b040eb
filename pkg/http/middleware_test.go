package xhttp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func newCtx(method, uri string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	return ctx
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(func(ctx *RequestCtx) {
		seen = RequestID(ctx)
	})

	t.Run("mints an id when absent", func(t *testing.T) {
		ctx := newCtx("GET", "/")
		h(ctx)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, string(ctx.Response.Header.Peek("X-Request-Id")))
	})

	t.Run("keeps caller id", func(t *testing.T) {
		ctx := newCtx("GET", "/")
		ctx.Request.Header.Set("X-Request-Id", "abc")
		h(ctx)
		assert.Equal(t, "abc", seen)
	})
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) {
		panic("boom")
	})
	ctx := newCtx("GET", "/")
	assert.NotPanics(t, func() { h(ctx) })
	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"error":"internal server error"}`, string(ctx.Response.Body()))
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	h := CORSMiddleware(func(ctx *RequestCtx) { called = true })

	t.Run("preflight short circuits", func(t *testing.T) {
		called = false
		ctx := newCtx("OPTIONS", "/transactions/")
		h(ctx)
		assert.False(t, called)
		assert.Equal(t, StatusNoContent, ctx.Response.StatusCode())
		assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	})

	t.Run("regular request passes through", func(t *testing.T) {
		called = false
		ctx := newCtx("GET", "/transactions/")
		h(ctx)
		assert.True(t, called)
		assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	})
}

func TestEngineMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) MiddlewareFunc {
		return func(next RequestHandler) RequestHandler {
			return func(ctx *RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	e := CreateServer()
	e.Use(mark("first"))
	e.Use(mark("second"))
	e.GET("/ping", func(ctx *RequestCtx) { order = append(order, "handler") })

	h := e.DoRouting()
	h(newCtx("GET", "/ping"))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestNotFoundHandler(t *testing.T) {
	ctx := newCtx("GET", "/nope")
	NotFoundHandler(ctx)
	assert.Equal(t, StatusNotFound, ctx.Response.StatusCode())
}

func TestCompressMiddleware(t *testing.T) {
	body := strings.Repeat(`{"type":"debit","amount":"12.50"},`, 200)
	h := CompressMiddleware(fasthttp.CompressBestSpeed)(func(ctx *RequestCtx) {
		ctx.SetContentType("application/json")
		ctx.SetBodyString(body)
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		ctx := newCtx("GET", "/transactions/")
		ctx.Request.Header.Set("Accept-Encoding", "gzip")
		h(ctx)
		assert.Equal(t, "gzip", string(ctx.Response.Header.Peek("Content-Encoding")))

		plain, err := ctx.Response.BodyGunzip()
		assert.NoError(t, err)
		assert.Equal(t, body, string(plain))
	})

	t.Run("identity otherwise", func(t *testing.T) {
		ctx := newCtx("GET", "/transactions/")
		h(ctx)
		assert.Empty(t, ctx.Response.Header.Peek("Content-Encoding"))
		assert.Equal(t, body, string(ctx.Response.Body()))
	})
}

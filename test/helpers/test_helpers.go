package helpers

import (
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/finance-ledger/internal/config"
	"github.com/nimasrn/finance-ledger/internal/repository"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/pg"
	"github.com/nimasrn/finance-ledger/pkg/redis"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// TestConfig mirrors the env defaults with an in-memory sqlite store.
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		AppName:               "finance_ledger_test",
		HttpRequestTimeout:    5 * time.Second,
		DBDriver:              pg.DriverSQLite,
		SQLitePath:            ":memory:",
		StoreTimeout:          3 * time.Second,
		ListDefaultLimit:      100,
		ListMaxLimit:          1000,
		BulkDeleteMaxIDs:      500,
		BulkDeleteConcurrency: 4,
		IdempotencyTTL:        time.Hour,
		IdempotencyLockTTL:    30 * time.Second,
	}
}

func SetupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	db, err := pg.CreateSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Entities()...))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	// unique name per test, adapters are cached by name
	adapter, err := redis.NewRedisAdapter(t.Name()+"-"+mr.Addr(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

// Client talks to an engine served over an in-memory listener.
type Client struct {
	c *fasthttp.Client
}

// Response is a detached copy of a fasthttp response.
type Response struct {
	Status int
	Body   []byte
	Header map[string]string
}

// Serve starts e on an in-memory listener for the duration of the test.
func Serve(t *testing.T, e *xhttp.Engine) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	e.DoRouting()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		<-done
	})

	return &Client{c: &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}}
}

func (c *Client) Do(t *testing.T, method, path string, body []byte, headers map[string]string) Response {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI("http://ledger.test" + path)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}
	require.NoError(t, c.c.DoTimeout(req, resp, 10*time.Second))

	out := Response{
		Status: resp.StatusCode(),
		Body:   append([]byte(nil), resp.Body()...),
		Header: map[string]string{},
	}
	resp.Header.VisitAll(func(k, v []byte) {
		out.Header[string(k)] = string(v)
	})
	return out
}

package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hindiconfession/cli/pkg/adminsession"
	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/client"
	"github.com/hindiconfession/cli/pkg/config"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/prompter"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/hindiconfession/cli/pkg/storage"
	"github.com/stretchr/testify/require"
)

// harness wires services against a fake backend
type harness struct {
	deps  *Deps
	store *storage.Memory
	out   *bytes.Buffer

	mu       sync.Mutex
	requests []string
}

func newHarness(t *testing.T, mux *http.ServeMux, input string) *harness {
	t.Helper()

	h := &harness{store: storage.NewMemory(), out: &bytes.Buffer{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests = append(h.requests, r.Method+" "+r.URL.RequestURI())
		h.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	sess := session.NewStore(h.store)
	admin := adminsession.NewStore(h.store)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sess.Rehydrate(ctx)
	admin.Rehydrate(ctx)
	require.NoError(t, sess.WaitHydrated(ctx))
	require.NoError(t, admin.WaitHydrated(ctx))

	httpClient := client.New(client.Options{BaseURL: srv.URL}, client.TokenFunc(sess.Token))
	h.deps = &Deps{
		API:      api.New(httpClient),
		Session:  sess,
		Admin:    admin,
		Locale:   locale.NewResolver(sess, h.store),
		Prompter: prompter.New(strings.NewReader(input), io.Discard),
		PageSize: 2,
	}

	output.SetWriter(h.out)
	t.Cleanup(func() { output.SetWriter(nil) })
	return h
}

func (h *harness) sent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.requests...)
}

func (h *harness) sentMatching(prefix string) []string {
	var out []string
	for _, r := range h.sent() {
		if strings.HasPrefix(r, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func useJSONOutput(t *testing.T) {
	t.Helper()
	config.Set("output.format", "json")
	t.Cleanup(func() { config.Set("output.format", "text") })
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

const loginOK = `{"success":true,"token":"t-asha","user":{"id":"u1","username":"asha","language":"english","theme":"dark","showNsfw":false}}`

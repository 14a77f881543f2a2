package cli

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alexanderramin/costvar/internal/api"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_ServesUntilCancelled(t *testing.T) {
	app := testApp(t)
	id := seedUpload(t, app, testutil.NewExampleCostSheet(), "example.xlsx")

	h := api.NewHandler(app.Costs, intelligence.NewReportService(nil), api.DefaultMaxUploadMB)
	srv := &http.Server{Handler: api.NewServer(h, api.Options{}).Handler()}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, ln, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + api.BasePath + "/session/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeCmd_BadAddr(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "serve", "--addr", "256.0.0.1:bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

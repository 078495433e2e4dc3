package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gonap/gava/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Record.Pad = "0"
	cfg.Record.Fields = rosterFields
	cfg.Security.APIKey = "secret"

	sc := NewServerConfig(cfg)

	assert.Equal(t, "127.0.0.1", sc.Bind)
	assert.Equal(t, 8080, sc.Port)
	assert.Equal(t, "secret", sc.APIKey)
	assert.Equal(t, 80, sc.Width)
	assert.Equal(t, byte('0'), sc.Pad)
	assert.Equal(t, 64*1024, sc.BufferSize)
	assert.Equal(t, 1000, sc.BatchSize)
	assert.Equal(t, rosterFields, sc.Fields)
}

func TestServer_Serve(t *testing.T) {
	server, _ := setupTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, ln)
	}()

	base := fmt.Sprintf("http://%s", ln.Addr().String())

	req, err := http.NewRequest("POST", base+"/api/v1/records?width=20", strings.NewReader(roster))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_Start_BadAddress(t *testing.T) {
	server, _ := setupTestServer(t)
	server.config.Bind = "127.0.0.1"
	server.config.Port = -1

	err := server.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
)

func TestLandingPage(t *testing.T) {
	data := newPageData("play.example.com", "2222", config.Default().Keys)
	srv := httptest.NewServer(newHandler(data, log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ssh -t -p 2222 play.example.com")
	assert.Contains(t, string(body), "A / LEFT")
	assert.Contains(t, string(body), "Q / CTRL+C")
}

func TestUnknownPath(t *testing.T) {
	srv := httptest.NewServer(newHandler(pageData{}, log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package main

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var pageSource string

var page = template.Must(template.New("index").Parse(pageSource))

// pageData fills the landing page template.
type pageData struct {
	SSHHost string
	SSHPort string
	Keys    []keyHelp
}

type keyHelp struct {
	Action string
	Keys   string
}

func newPageData(sshHost, sshPort string, keys config.KeySettings) pageData {
	join := func(names []string) string { return strings.ToUpper(strings.Join(names, " / ")) }
	return pageData{
		SSHHost: sshHost,
		SSHPort: sshPort,
		Keys: []keyHelp{
			{"Move left", join(keys.MoveLeft)},
			{"Move right", join(keys.MoveRight)},
			{"Fire", join(keys.Fire)},
			{"Start / restart", join(keys.Start)},
			{"Quit", join(keys.Quit)},
		},
	}
}

func newHandler(data pageData, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})
	return mux
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")
	settings, err := config.Load(config.GetEnv("INVADERS_CONFIG", ""))
	if err != nil {
		logger.Fatal("load settings", "err", err)
	}

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "url", "http://"+addr)
	handler := newHandler(newPageData(sshHost, sshPort, settings.Keys), logger)
	if err := http.ListenAndServe(addr, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

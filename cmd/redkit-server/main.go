// Command redkit-server runs the RESP-compatible key-value server
// described by the redkit package, plus a read-only HTTP status
// surface alongside it.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redkit/redkit"
	"github.com/redkit/redkit/internal/config"
	"github.com/redkit/redkit/internal/logging"
	"github.com/redkit/redkit/internal/statusapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "redkit.yaml", "path to the YAML configuration file")
	statusAddr := flag.String("status-addr", "127.0.0.1:6380", "address for the read-only HTTP status surface")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "redkit-server: config:", err)
		return 1
	}

	sink, err := logging.NewSink(
		logging.WithPath(cfg.LogFile),
		logging.WithLevel(logging.LevelFor(cfg.Verbose)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "redkit-server: logging:", err)
		return 1
	}

	srv := redkit.NewServer(cfg.Address, cfg.LogFile, cfg.Verbose, cfg.TimeoutSecs)

	// External edits to the config file converge with runtime CONFIG SET
	// by feeding the same server-executor path the protocol uses.
	watcher, err := config.NewWatcher(*configPath, cfg, func(next *config.Config) {
		srv.Exec("config", "set", "logfile", next.LogFile)
		srv.Exec("config", "set", "timeout", strconv.Itoa(next.TimeoutSecs))
		if next.Verbose {
			srv.Exec("config", "set", "verbose", "yes")
		} else {
			srv.Exec("config", "set", "verbose", "no")
		}
		sink.Write(logging.Info, "configuration reloaded")
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "redkit-server: config watch:", err)
		return 1
	}
	defer watcher.Close()

	go drainLog(srv, sink)

	statusSrv := &http.Server{Addr: *statusAddr, Handler: statusapi.NewRouter(srv)}
	go func() {
		if err := statusSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sink.Write(logging.Error, "status server: "+err.Error())
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		srv.Shutdown()
		statusSrv.Close()
	}()

	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "redkit-server:", err)
		return 2
	}
	return 0
}

func drainLog(srv *redkit.Server, sink *logging.Sink) {
	for msg := range srv.LogChannel() {
		sink.Write(logging.LogLevel(msg.Level), msg.Text)
	}
}

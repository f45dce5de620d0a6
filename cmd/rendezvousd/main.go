// Command rendezvousd runs the rendezvous directory: the external service
// peers contest the lobby slot through. It holds no game state; a claim lives
// exactly as long as the claiming websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayBlankenship/WaterWorld5/internal/logging"
	"github.com/JayBlankenship/WaterWorld5/internal/ports/wsnet"
)

func main() {
	addr := flag.String("addr", ":9190", "address to listen on")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logging.NewStdLogger("rendezvousd", *verbose)

	mux := http.NewServeMux()
	mux.Handle(wsnet.DirectoryPath, wsnet.NewDirectoryServer(log))
	server := &http.Server{Addr: *addr, Handler: mux}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("directory listening on %s%s", *addr, wsnet.DirectoryPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("serve: %v", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn("shutdown: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/firstrankcoders/credential-service/internal/di"
	"github.com/firstrankcoders/credential-service/internal/tools/common"
)

func main() {
	if err := common.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	a, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	a.Logger.Info("shutdown requested")
	if err := a.Shutdown(context.Background()); err != nil {
		os.Exit(1)
	}
}

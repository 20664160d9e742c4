package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/did-crypto-service/api/cryptohandler"
	"github.com/ruteri/did-crypto-service/cmd/flags"
	"github.com/ruteri/did-crypto-service/common"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/httpserver"
	"github.com/urfave/cli/v2"
)

func main() {
	serverFlags := []cli.Flag{flags.StorageFlag, flags.LogServiceFlagFn("didcrypto-server")}
	serverFlags = append(serverFlags, flags.LogFlags...)
	serverFlags = append(serverFlags, flags.ServerFlags...)

	app := &cli.App{
		Name:    "didcrypto-server",
		Usage:   "Serve DID crypto operations over HTTP",
		Version: common.Version,
		Flags:   serverFlags,
		Action:  runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	publisher, err := flags.ConfigurePublisher(cCtx, logger)
	if err != nil {
		logger.Error("storage configuration failed", "err", err)
		return err
	}
	if publisher == nil {
		logger.Info("no storage configured, envelope routes disabled")
	}

	server, err := httpserver.New(
		flags.ConfigureServer(cCtx, logger),
		cryptohandler.NewHandler(cryptoutils.DefaultProvider, publisher, logger),
	)
	if err != nil {
		logger.Error("server setup failed", "err", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.RunInBackground()
	<-ctx.Done()

	logger.Info("shutting down")
	server.Shutdown()
	return nil
}

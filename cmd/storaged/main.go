// storaged serves the sealstore blob API over HTTP.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sealstore/sealstore/cmd/flags"
	"github.com/sealstore/sealstore/httpserver"
	"github.com/sealstore/sealstore/store"
	"github.com/urfave/cli/v2"
)

func main() {
	appFlags := []cli.Flag{}
	appFlags = append(appFlags, flags.StoreFlags...)
	appFlags = append(appFlags, flags.ListenAddrFlag, flags.PprofFlag, flags.DrainSecondsFlag)
	appFlags = append(appFlags, flags.CommonFlags...)

	app := &cli.App{
		Name:  "storaged",
		Usage: "Serve the content storage API with sealed-at-rest support",
		Flags: appFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			s, err := store.New(store.Config{
				BackendURI: cCtx.String(flags.BackendFlag.Name),
				MirrorURIs: cCtx.StringSlice(flags.MirrorFlag.Name),
				Secret:     cCtx.String(flags.SecretFlag.Name),
				Salt:       cCtx.String(flags.SaltFlag.Name),
				Log:        logger,
			})
			if err != nil {
				logger.Error("Failed to create store", "err", err)
				return err
			}

			cfg := flags.ConfigureServer(cCtx, logger)
			srv, err := httpserver.New(cfg, httpserver.NewHandler(s, logger))
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting storaged", "listenAddr", cfg.ListenAddr, "backend", cCtx.String(flags.BackendFlag.Name))
			srv.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit

			logger.Info("Shutting down")
			srv.Shutdown()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

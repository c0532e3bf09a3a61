// Package flags holds the CLI flags and setup helpers shared by the
// sealstore binaries.
package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sealstore/sealstore/common"
	"github.com/sealstore/sealstore/httpserver"
	"github.com/urfave/cli/v2"
)

// SetupLogger builds the process logger from the common logging flags.
func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ConfigureServer translates the server flags into an HTTP server config.
func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *httpserver.HTTPServerConfig {
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var BackendFlag = &cli.StringFlag{
	Name:    "backend",
	Value:   "file://./sealstore-data",
	Usage:   "storage backend URI (file://, s3://, vault://, ipfs://, bolt://)",
	EnvVars: []string{"SEALSTORE_BACKEND"},
}
var MirrorFlag = &cli.StringSliceFlag{
	Name:    "mirror",
	Usage:   "additional backend URIs to replicate writes to (repeatable)",
	EnvVars: []string{"SEALSTORE_MIRRORS"},
}
var SecretFlag = &cli.StringFlag{
	Name:    "secret",
	Usage:   "secret for the sealing key derivation",
	EnvVars: []string{"SEALSTORE_SECRET"},
}
var SaltFlag = &cli.StringFlag{
	Name:    "salt",
	Usage:   "salt for the sealing key derivation",
	EnvVars: []string{"SEALSTORE_SALT"},
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

// StoreFlags configure backend selection and sealing secrets.
var StoreFlags = []cli.Flag{
	BackendFlag,
	MirrorFlag,
	SecretFlag,
	SaltFlag,
}

// CommonFlags are shared by every binary.
var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}

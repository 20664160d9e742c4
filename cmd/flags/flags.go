package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/common"
	"github.com/ruteri/did-crypto-service/credential"
	"github.com/ruteri/did-crypto-service/storage"
	"github.com/urfave/cli/v2"
)

// SetupLogger builds the process logger from the log flags.
func SetupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJsonFlag.Name),
		Service: cCtx.String("log-service"),
		Version: common.Version,
	})

	if cCtx.Bool(LogUidFlag.Name) {
		logger = logger.With("uid", uuid.Must(uuid.NewRandom()).String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *api.HTTPServerConfig {
	seconds := func(f *cli.Int64Flag) time.Duration {
		return time.Duration(cCtx.Int64(f.Name)) * time.Second
	}

	return &api.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		RequestBodyLimit:         cCtx.Int64(RequestBodyLimitFlag.Name),
		DrainDuration:            seconds(DrainSecondsFlag),
		GracefulShutdownDuration: seconds(ShutdownSecondsFlag),
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// ConfigurePublisher returns a publisher over the --storage URIs, or nil if
// none were given.
func ConfigurePublisher(cCtx *cli.Context, logger *slog.Logger) (*credential.Publisher, error) {
	uris := cCtx.StringSlice(StorageFlag.Name)
	if len(uris) == 0 {
		return nil, nil
	}

	backend, err := storage.NewStorageBackendFactory(logger).BackendFromURIs(uris)
	if err != nil {
		return nil, err
	}

	logger.Info("Configured storage", "backend", backend.Name(), "location", backend.LocationURI())
	return credential.NewPublisher(backend, logger), nil
}

// Server and storage flags.
var (
	ListenAddrFlag = &cli.StringFlag{
		Name:    "listen-addr",
		Value:   "127.0.0.1:8080",
		Usage:   "address the crypto API listens on",
		EnvVars: []string{"DIDCRYPTO_LISTEN_ADDR"},
	}
	MetricsAddrFlag = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "127.0.0.1:8090",
		Usage:   "address Prometheus metrics are served on, empty to disable",
		EnvVars: []string{"DIDCRYPTO_METRICS_ADDR"},
	}
	PprofFlag = &cli.BoolFlag{
		Name:  "pprof",
		Usage: "mount pprof handlers under /debug",
	}
	DrainSecondsFlag = &cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds readiness fails before the listeners close on shutdown",
	}
	ShutdownSecondsFlag = &cli.Int64Flag{
		Name:  "shutdown-seconds",
		Value: 30,
		Usage: "seconds in-flight requests get to finish on shutdown",
	}
	RequestBodyLimitFlag = &cli.Int64Flag{
		Name:  "request-body-limit",
		Value: api.DefaultRequestBodyLimit,
		Usage: "maximum API request body size in bytes",
	}
	StorageFlag = &cli.StringSliceFlag{
		Name:    "storage",
		Usage:   "storage backend URI (file://, ipfs://, s3://, vault://); repeat to replicate",
		EnvVars: []string{"DIDCRYPTO_STORAGE"},
	}
)

// Logging flags, shared by every binary.
var (
	LogJsonFlag = &cli.BoolFlag{
		Name:    "log-json",
		Usage:   "log in JSON format",
		EnvVars: []string{"DIDCRYPTO_LOG_JSON"},
	}
	LogDebugFlag = &cli.BoolFlag{
		Name:    "log-debug",
		Usage:   "log debug messages",
		EnvVars: []string{"DIDCRYPTO_LOG_DEBUG"},
	}
	LogUidFlag = &cli.BoolFlag{
		Name:  "log-uid",
		Usage: "tag every log line with a per-process uuid",
	}
)

func LogServiceFlagFn(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "value of the 'service' log attribute",
	}
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}

var ServerFlags = []cli.Flag{
	ListenAddrFlag,
	MetricsAddrFlag,
	PprofFlag,
	DrainSecondsFlag,
	ShutdownSecondsFlag,
	RequestBodyLimitFlag,
}

// Ledger flags used by the credential registry commands.
var (
	RpcAddrFlag = &cli.StringFlag{
		Name:    "rpc-addr",
		Value:   "http://127.0.0.1:8545",
		Usage:   "Ethereum JSON-RPC endpoint",
		EnvVars: []string{"DIDCRYPTO_RPC_ADDR"},
	}
	CredentialContractFlag = &cli.StringFlag{
		Name:    "credential-contract",
		Usage:   "CredentialManager contract address, 0x-prefixed hex",
		EnvVars: []string{"DIDCRYPTO_CREDENTIAL_CONTRACT"},
	}
)

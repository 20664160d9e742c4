/*
Package httpserver runs the crypto sidecar: the cryptohandler routes behind
request logging and metrics, plus the health endpoints expected by a load
balancer.

API Endpoints:

  - POST /api/v1/keys/encryption, POST /api/v1/keys/signing
  - POST /api/v1/encrypt, POST /api/v1/decrypt
  - POST /api/v1/sign, POST /api/v1/verify
  - POST /api/v1/envelopes, GET /api/v1/envelopes/{content_id} (with storage)

Health Endpoints:

  - GET /livez - always 200 while the process serves requests
  - GET /readyz - 503 after /drain until /undrain
  - GET /drain, GET /undrain - toggle readiness

Metrics are served on a separate listener at /metrics when MetricsAddr is
set. pprof is mounted under /debug when EnablePprof is set.

Usage:

	handler := cryptohandler.NewHandler(cryptoutils.DefaultProvider, publisher, logger)
	srv, err := httpserver.New(cfg, handler)
	if err != nil {
	    log.Fatal(err)
	}
	srv.RunInBackground()
	defer srv.Shutdown()
*/
package httpserver

/*
Package api holds the wire types and server configuration shared by the
HTTP sidecar and its clients.

The sidecar exposes the cryptoutils operations over JSON so that callers in
other processes, such as a browser front-end or a contract registration
script, can use the same keys and encodings. Every key, ciphertext and
signature travels as the same base-64 string the Go API produces.

See the cryptohandler subpackage for routes and the Go client, and the
httpserver package for the server lifecycle.
*/
package api

// Package main (cmd/didcrypto) is the command-line tool for the DID crypto
// utility.
//
// Keys live in key files written by keygen. A key file records whether it
// holds an encryption or a signing key pair, and its private key can be
// sealed under a passphrase (--passphrase or DIDCRYPTO_PASSPHRASE).
//
// Example session:
//
//	didcrypto keygen --kind signing --out alice.json
//	didcrypto keygen --kind encryption --out bob.json --passphrase hunter2
//	didcrypto encrypt --key bob.json "Hi Bob, this is Alice!" > msg.txt
//	didcrypto decrypt --key bob.json --passphrase hunter2 < msg.txt
//	didcrypto sign --key alice.json "credential issued"
//	didcrypto verify --key alice.json --signature <sig> "credential issued"
//
// Envelopes combine both: seal encrypts for a recipient and signs with the
// sender's key. With --storage the envelope is published and a receipt
// holding its content ID and registry hash is printed:
//
//	didcrypto --storage ipfs://127.0.0.1:5001 seal --key alice.json --recipient <bob pub> "..."
//	didcrypto --storage ipfs://127.0.0.1:5001 open --key bob.json --content-id <cid>
//	didcrypto register --credential-contract 0x... --issuer-key <hex> --content-id <cid>
//	didcrypto status --credential-contract 0x... --content-id <cid>
//
// With --server, key generation and the cipher and signature commands run on
// a didcrypto-server sidecar instead of locally.
package main

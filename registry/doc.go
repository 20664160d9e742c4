// Package registry records credential hashes in the CredentialManager
// contract and checks whether a hash has been recorded.
//
// The hash registered for a credential is credential.RegistryHash of its
// content ID, so anyone holding the content ID can check the registration
// without fetching the credential.
//
// Example usage:
//
//	client, _ := ethclient.Dial("http://localhost:8545")
//	reg, err := registry.NewCredentialRegistryClient(client, client, contractAddress)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	auth, _ := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
//	reg.SetTransactOpts(auth)
//
//	tx, err := reg.RegisterCredential(ctx, credential.RegistryHash(cid))
//	...
//	registered, err := reg.VerifyCredential(ctx, credential.RegistryHash(cid))
package registry

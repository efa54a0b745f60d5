/*
Package tokenforge provisions an issued token on the XRP Ledger.

A run takes an issuer account and a receiver account through an ordered set of
irreversible, network-validated steps:

 1. verify both accounts are activated and the issuer is not already finalized
 2. apply the selected account flags to the issuer, one AccountSet each
 3. open a trust line from the receiver to the issuer (skipped when it exists)
 4. issue the requested amount to the receiver
 5. optionally black-hole the issuer: set its regular key to the black hole address and
    disable its master key

Each mutation is gated on a fresh read of the validated ledger, and only a validated
tesSUCCESS lets the run continue. Rejected transactions are never resubmitted.

# Usage

	client := jsonrpc.New("http://127.0.0.1:5005") // local admin node
	wallets := jsonrpc.NewWalletFactory(client)

	issuer, _ := wallets.FromSecret(ctx, os.Getenv("TOKENFORGE_ISSUER_SECRET"))
	receiver, _ := wallets.FromSecret(ctx, os.Getenv("TOKENFORGE_RECEIVER_SECRET"))

	eng := tokenforge.New(client, tokenforge.WithLogger(logger))
	report, err := eng.Run(ctx, tokenforge.Plan{
		Issuer:   issuer,
		Receiver: receiver,
		Currency: "USD",
		Amount:   "1000",
	})

The in-memory ledger in pkg/adapters/memory implements the same ports and is what
`tokenforge run --simulate` uses.
*/
package tokenforge

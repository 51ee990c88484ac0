package actors

import (
	"encoding/hex"
	"fmt"

	"factionengine/engine/library"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"
)

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the engine's relay identity, generating one on first use. It lives for the
// process only; nothing about a session is written to disk.
func MyWallet() library.Wallet {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) == 0 {
		library.LogCLI("Generating an ephemeral relay identity for wallet handshakes", 4)
		currentWallet = makeNewWallet()
	}
	return currentWallet
}

func makeNewWallet() library.Wallet {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	seed := nip06.SeedFromWords(seedWords)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return library.Wallet{
		PrivateKey: sk,
		SeedWords:  seedWords,
		Account:    getPubKey(sk),
	}
}

func getPubKey(privateKey string) string {
	if keyb, err := hex.DecodeString(privateKey); err != nil {
		library.LogCLI(fmt.Sprintf("Error decoding key from hex: %s\n", err.Error()), 0)
	} else {
		_, pubkey := btcec.PrivKeyFromBytes(keyb)
		return hex.EncodeToString(pubkey.SerializeCompressed()[1:])
	}
	return ""
}

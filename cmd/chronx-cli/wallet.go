package main

import (
	"fmt"
	"os"

	"github.com/chronx-io/chronx/internal/rpc"
	"github.com/chronx-io/chronx/internal/rpcclient"
	"github.com/chronx-io/chronx/internal/wallet"
	"golang.org/x/term"
)

func openKeystore(ksDir string) (*wallet.Keystore, error) {
	if err := os.MkdirAll(ksDir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return wallet.NewKeystore(ksDir)
}

func promptNewPassword() ([]byte, error) {
	fmt.Fprint(os.Stderr, "New wallet password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	if string(pw) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return pw, nil
}

func promptPassword() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Wallet password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return pw, err
}

func cmdWallet(args []string, ksDir string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: wallet create <name> | wallet list | wallet accounts <name> | wallet balance <name>")
	}
	switch args[0] {
	case "create":
		if err := mustArgs(args, 2, "wallet create <name>"); err != nil {
			return err
		}
		return cmdWalletCreate(args[1], ksDir)
	case "list":
		return cmdWalletList(ksDir)
	case "accounts":
		if err := mustArgs(args, 2, "wallet accounts <name>"); err != nil {
			return err
		}
		return cmdWalletAccounts(args[1], ksDir)
	case "balance":
		if err := mustArgs(args, 2, "wallet balance <name>"); err != nil {
			return err
		}
		return cmdWalletBalance(args[1])
	default:
		return fmt.Errorf("unknown wallet subcommand: %s", args[0])
	}
}

// cmdWalletCreate generates a fresh BIP-39 mnemonic, derives account index 0,
// and stores the encrypted seed in the local keystore.
func cmdWalletCreate(name, ksDir string) error {
	ks, err := openKeystore(ksDir)
	if err != nil {
		return err
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return err
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}

	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		return err
	}

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		return err
	}
	hd, err := master.DeriveAccount(0, 0, 0)
	if err != nil {
		return err
	}
	accountID, err := hd.AccountId()
	if err != nil {
		return err
	}
	if err := ks.AddAccount(name, wallet.AccountEntry{Index: 0, Name: "default", Address: accountID.String()}); err != nil {
		return err
	}

	fmt.Println("Wallet created:", name)
	fmt.Println("Recovery phrase (write this down, it will not be shown again):")
	fmt.Println(" ", mnemonic)
	fmt.Println("First account:", accountID.String())
	return nil
}

func cmdWalletList(ksDir string) error {
	ks, err := openKeystore(ksDir)
	if err != nil {
		return err
	}
	names, err := ks.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func cmdWalletAccounts(name, ksDir string) error {
	ks, err := openKeystore(ksDir)
	if err != nil {
		return err
	}
	entries, err := ks.ListAccounts(name)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%d\t%s\t%s\n", e.Index, e.Name, e.Address)
	}
	return nil
}

func cmdWalletBalance(name string) error {
	rpcURL := os.Getenv("CHRONX_RPC")
	if rpcURL == "" {
		rpcURL = "http://127.0.0.1:8645"
	}
	client := rpcclient.New(rpcURL)

	var result interface{}
	if err := client.Call("wallet_getBalance", rpc.WalletParam{Wallet: name}, &result); err != nil {
		return err
	}
	return printJSON(result)
}

// cmdSend asks the node's wallet_send RPC to derive the wallet's account at
// accountIndex and to build, sign, and enqueue a transfer. The node holds the
// same keystore directory so its own RPC handler performs the derivation and
// signing; the wallet password travels in the request, the unlocked private
// key does not.
func cmdSend(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 4, "send <wallet> <account_index> <to> <amount_chronos>"); err != nil {
		return err
	}
	walletName := args[0]
	var accountIndex uint32
	if _, err := fmt.Sscanf(args[1], "%d", &accountIndex); err != nil {
		return fmt.Errorf("invalid account_index: %w", err)
	}
	to := args[2]
	amount := args[3]

	password, err := promptPassword()
	if err != nil {
		return err
	}

	var result rpc.TxSubmitResult
	p := rpc.WalletSendParam{
		Wallet:        walletName,
		Password:      string(password),
		AccountIndex:  accountIndex,
		To:            to,
		AmountChronos: amount,
	}
	if err := c.Call("wallet_send", p, &result); err != nil {
		return err
	}
	return printJSON(result)
}

// chronx-cli is a command-line client for interacting with a chronxd node
// and managing local HD wallets.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chronx-io/chronx/internal/rpcclient"
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chronx"
	}
	return filepath.Join(home, ".chronx")
}

// keystoreDir mirrors chronxd's layout: <datadir>/<network>/keystore.
func keystoreDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	rpcURL := "http://127.0.0.1:8645"
	dataDir := defaultDataDir()
	network := "mainnet"

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keystoreDir(dataDir, network)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	var err error
	switch cmd {
	case "status":
		err = cmdStatus(client)
	case "account":
		err = cmdAccount(client, cmdArgs)
	case "tx":
		err = cmdTx(client, cmdArgs)
	case "submit":
		err = cmdSubmit(client, cmdArgs)
	case "timelock":
		err = cmdTimeLock(client, cmdArgs)
	case "claim":
		err = cmdClaim(client, cmdArgs)
	case "provider":
		err = cmdProvider(client, cmdArgs)
	case "schema":
		err = cmdSchema(client, cmdArgs)
	case "oracle":
		err = cmdOracle(client, cmdArgs)
	case "mempool":
		err = cmdMempool(client)
	case "peers":
		err = cmdPeers(client)
	case "wallet":
		err = cmdWallet(cmdArgs, ksDir)
	case "send":
		err = cmdSend(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `chronx-cli [--rpc URL] [--datadir PATH] [--network mainnet|testnet] <command> [args]

Commands:
  status                                chain info (tips, difficulty, mempool, peers)
  account get <account_id>              fetch account state
  tx get <tx_id>                        fetch a vertex by id
  submit <tx_hex>                       submit a hex-encoded signed transaction
  timelock get <lock_id>                fetch a time-locked commitment
  timelock list [sender] [recipient]    list commitments (filters optional)
  claim get <lock_id>                   fetch a claim's resolution state
  provider get <account_id>             fetch an oracle provider's registration
  schema get <schema_id>                fetch a certificate schema
  oracle get <pair>                     fetch the latest oracle snapshot for a pair
  mempool                               pending transaction count
  peers                                 connected peer list
  wallet create <name>                  create a new encrypted wallet
  wallet list                           list local wallets
  wallet accounts <name>                list a wallet's derived accounts (index, name, address)
  wallet balance <name>                 total balance across a wallet's accounts
  send <wallet> <account_index> <to> <amount_chronos>
                                         derive, sign, and submit a transfer`)
}

func mustArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

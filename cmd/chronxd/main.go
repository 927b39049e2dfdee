// ChronX full node daemon.
//
// Usage:
//
//	chronxd [flags]      Run a node
//	chronxd --help       Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chronx-io/chronx/config"
	"github.com/chronx-io/chronx/internal/node"
)

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flags.Help {
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("chronxd (ChronX ledger daemon)")
		os.Exit(0)
	}

	if err := config.EnsureDataDirs(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing data directory: %v\n", err)
		os.Exit(1)
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting node: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("chronxd listening: rpc=%s\n", n.RPCAddr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}

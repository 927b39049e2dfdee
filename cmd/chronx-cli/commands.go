package main

import (
	"encoding/json"
	"fmt"

	"github.com/chronx-io/chronx/internal/rpc"
	"github.com/chronx-io/chronx/internal/rpcclient"
)

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func cmdStatus(c *rpcclient.Client) error {
	var info rpc.ChainInfoResult
	if err := c.Call("chain_getInfo", nil, &info); err != nil {
		return err
	}
	return printJSON(info)
}

func cmdAccount(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "account get <account_id>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown account subcommand: %s", args[0])
	}
	var acc rpc.AccountResult
	if err := c.Call("account_get", rpc.AccountIdParam{AccountId: args[1]}, &acc); err != nil {
		return err
	}
	return printJSON(acc)
}

func cmdTx(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "tx get <tx_id>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown tx subcommand: %s", args[0])
	}
	var raw json.RawMessage
	if err := c.Call("tx_get", rpc.TxIdParam{TxId: args[1]}, &raw); err != nil {
		return err
	}
	return printJSON(raw)
}

func cmdSubmit(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 1, "submit <tx_hex>"); err != nil {
		return err
	}
	var result rpc.TxSubmitResult
	if err := c.Call("tx_submit", rpc.TxSubmitParam{TxHex: args[0]}, &result); err != nil {
		return err
	}
	return printJSON(result)
}

func cmdTimeLock(c *rpcclient.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: timelock get <lock_id> | timelock list [sender] [recipient]")
	}
	switch args[0] {
	case "get":
		if err := mustArgs(args, 2, "timelock get <lock_id>"); err != nil {
			return err
		}
		var raw json.RawMessage
		if err := c.Call("timelock_get", rpc.TimeLockIdParam{LockId: args[1]}, &raw); err != nil {
			return err
		}
		return printJSON(raw)
	case "list":
		p := rpc.TimeLockListParam{Limit: 50}
		if len(args) > 1 {
			p.Sender = args[1]
		}
		if len(args) > 2 {
			p.Recipient = args[2]
		}
		var raw json.RawMessage
		if err := c.Call("timelock_list", p, &raw); err != nil {
			return err
		}
		return printJSON(raw)
	default:
		return fmt.Errorf("unknown timelock subcommand: %s", args[0])
	}
}

func cmdClaim(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "claim get <lock_id>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown claim subcommand: %s", args[0])
	}
	var raw json.RawMessage
	if err := c.Call("claim_get", rpc.TimeLockIdParam{LockId: args[1]}, &raw); err != nil {
		return err
	}
	return printJSON(raw)
}

func cmdProvider(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "provider get <account_id>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown provider subcommand: %s", args[0])
	}
	var raw json.RawMessage
	if err := c.Call("provider_get", rpc.AccountIdParam{AccountId: args[1]}, &raw); err != nil {
		return err
	}
	return printJSON(raw)
}

func cmdSchema(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "schema get <schema_id>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown schema subcommand: %s", args[0])
	}
	var schemaID uint64
	if _, err := fmt.Sscanf(args[1], "%d", &schemaID); err != nil {
		return fmt.Errorf("invalid schema_id: %w", err)
	}
	var raw json.RawMessage
	if err := c.Call("schema_get", rpc.SchemaIdParam{SchemaId: schemaID}, &raw); err != nil {
		return err
	}
	return printJSON(raw)
}

func cmdOracle(c *rpcclient.Client, args []string) error {
	if err := mustArgs(args, 2, "oracle get <pair>"); err != nil {
		return err
	}
	if args[0] != "get" {
		return fmt.Errorf("unknown oracle subcommand: %s", args[0])
	}
	var raw json.RawMessage
	if err := c.Call("oracle_getSnapshot", rpc.OraclePairParam{Pair: args[1]}, &raw); err != nil {
		return err
	}
	return printJSON(raw)
}

func cmdMempool(c *rpcclient.Client) error {
	var info rpc.MempoolInfoResult
	if err := c.Call("mempool_getInfo", nil, &info); err != nil {
		return err
	}
	return printJSON(info)
}

func cmdPeers(c *rpcclient.Client) error {
	var info rpc.NetInfoResult
	if err := c.Call("net_getInfo", nil, &info); err != nil {
		return err
	}
	return printJSON(info)
}

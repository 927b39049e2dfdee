// Package node wires together ChronX's storage, state engine, mempool,
// P2P gossip, and RPC server into a single runnable process (the
// concurrency model: exactly one task drives the engine; P2P and RPC only
// ever read the store directly or hand transactions to that task, RPC via
// the mempool and P2P gossip via the inbound channel).
package node

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chronx-io/chronx/config"
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/consensus"
	"github.com/chronx-io/chronx/internal/engine"
	"github.com/chronx-io/chronx/internal/genesis"
	klog "github.com/chronx-io/chronx/internal/log"
	"github.com/chronx-io/chronx/internal/mempool"
	"github.com/chronx-io/chronx/internal/p2p"
	"github.com/chronx-io/chronx/internal/rpc"
	"github.com/chronx-io/chronx/internal/storage"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/internal/wallet"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/rs/zerolog"
)

// Node is a fully initialized ChronX node.
type Node struct {
	cfg     *config.Config
	genesis *config.Genesis
	logger  zerolog.Logger

	db    storage.DB
	store *store.Store

	engine     *engine.Engine
	pool       *mempool.Pool
	retarget   *consensus.Retargeter
	finality   *consensus.FinalityTracker
	verifierID types.AccountId

	p2pNode *p2p.Node
	syncer  *p2p.Syncer

	rpcServer *rpc.Server

	verifierKey *crypto.PrivateKey

	inbound chan *chain.Transaction

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New initializes a Node's storage, genesis, engine, P2P and RPC layers and
// starts the P2P host and RPC server (when enabled), but not the apply or
// heartbeat loops. Call Start for those.
func New(cfg *config.Config) (*Node, error) {
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = logsDir + "/chronx.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	gen, err := config.GenesisFor(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("load genesis: %w", err)
	}

	logger.Info().
		Str("chain_id", gen.ChainID).
		Str("network", string(cfg.Network)).
		Msg("Starting ChronX node")

	db, err := storage.NewBadger(cfg.StoreDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.StoreDir(), err)
	}
	s := store.Open(db)

	tips, err := s.Tips()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading tips: %w", err)
	}
	if done, _, _ := s.GetMetaU64(store.MetaKeyGenesisDone); done != 1 {
		logger.Info().Msg("fresh database — applying genesis")
		if _, err := genesis.Build(s, gen.Params()); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying genesis: %w", err)
		}
	} else {
		logger.Info().Int("tips", len(tips)).Msg("existing database found — skipping genesis")
	}

	initialDifficulty := chain.PowInitialDifficulty
	if d, ok, _ := s.GetMetaU64(store.MetaKeyDifficulty); ok {
		initialDifficulty = int(d)
	}
	retarget := consensus.NewRetargeter(initialDifficulty)
	eng := engine.New(s, retarget.Current())

	pool := mempool.New(5000)
	finality := consensus.NewFinalityTracker()

	var verifierKey *crypto.PrivateKey
	keyPath := cfg.ChainDataDir() + "/verifier.key"
	if _, statErr := os.Stat(keyPath); statErr == nil {
		verifierKey, err = loadValidatorKey(keyPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("load verifier key: %w", err)
		}
		logger.Info().Msg("Bonded verifier key loaded")
	}

	n := &Node{
		cfg:         cfg,
		genesis:     gen,
		logger:      logger,
		db:          db,
		store:       s,
		engine:      eng,
		pool:        pool,
		retarget:    retarget,
		finality:    finality,
		verifierKey: verifierKey,
		inbound:     make(chan *chain.Transaction, 512),
	}
	if verifierKey != nil {
		n.verifierID = crypto.AccountIdFromPubKey(verifierKey.PublicKey())
	}

	if cfg.P2P.Enabled {
		if err := n.setupP2P(); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup P2P: %w", err)
		}
	} else {
		logger.Warn().Msg("P2P disabled by config; node will run offline")
	}

	if cfg.RPC.Enabled {
		if err := n.setupRPC(); err != nil {
			n.teardown()
			return nil, fmt.Errorf("setup RPC: %w", err)
		}
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.ctx = ctx
	n.cancel = cancel

	return n, nil
}

func (n *Node) setupP2P() error {
	p2pNode := p2p.New(p2p.Config{
		ListenAddr: n.cfg.P2P.ListenAddr,
		Port:       n.cfg.P2P.Port,
		Seeds:      n.cfg.P2P.Seeds,
		MaxPeers:   n.cfg.P2P.MaxPeers,
		NoDiscover: n.cfg.P2P.NoDiscover,
		DB:         n.db,
		NetworkID:  n.genesis.ChainID,
		DataDir:    n.cfg.ChainDataDir(),
	})

	if genesisHash, err := n.genesis.Hash(); err == nil {
		p2pNode.SetGenesisHash(genesisHash)
	}
	p2pNode.SetHeightFn(func() uint64 { return n.Height() })

	// Gossip-received vertices are decoded and routed onto the inbound
	// channel; the apply loop owns them from there (mirrors the original
	// node's gossip -> tx queue pipe).
	p2pNode.SetVertexHandler(func(from peer.ID, data []byte) {
		tx, err := chain.DecodeTransaction(data)
		if err != nil {
			n.logger.Debug().Err(err).Msg("failed to decode inbound vertex")
			if p2pNode.BanManager != nil {
				p2pNode.BanManager.RecordOffense(from, p2p.PenaltyInvalidTx, "decode: "+err.Error())
			}
			return
		}
		select {
		case n.inbound <- tx:
		default:
			n.logger.Warn().Msg("inbound queue full, dropping vertex")
		}
	})

	if err := p2pNode.Start(); err != nil {
		return fmt.Errorf("start P2P: %w", err)
	}
	n.logger.Info().
		Str("id", p2pNode.ID().String()).
		Int("port", n.cfg.P2P.Port).
		Bool("discovery", !n.cfg.P2P.NoDiscover).
		Msg("P2P node started")

	if err := p2pNode.JoinHeartbeat(); err != nil {
		n.logger.Warn().Err(err).Msg("failed to join heartbeat topic")
	} else {
		p2pNode.SetHeartbeatHandler(func(msg *p2p.HeartbeatMessage) {
			if !p2p.VerifyHeartbeat(msg) {
				return
			}
		})
		n.logger.Info().Msg("heartbeat protocol joined")
	}

	syncer := p2p.NewSyncer(p2pNode)
	syncer.RegisterVertexHandler(func(id types.TxId) *chain.Transaction {
		tx, found, err := n.store.GetTransaction(id)
		if err != nil || !found {
			return nil
		}
		return tx
	})
	syncer.RegisterTipsHandler(func() []types.TxId {
		tips, err := n.store.Tips()
		if err != nil {
			return nil
		}
		return tips
	})

	n.p2pNode = p2pNode
	n.syncer = syncer
	return nil
}

func (n *Node) setupRPC() error {
	rpcAddr := fmt.Sprintf("%s:%d", n.cfg.RPC.Addr, n.cfg.RPC.Port)
	rpcServer := rpc.New(rpcAddr, n.store, n.pool, n.p2pNode, n.genesis,
		func() int { return n.retarget.Current() }, n.cfg.RPC)
	if err := rpcServer.Start(); err != nil {
		return fmt.Errorf("start RPC at %s: %w", rpcAddr, err)
	}
	n.logger.Info().Str("addr", rpcServer.Addr()).Msg("RPC server started")

	if n.cfg.Wallet.Enabled {
		ks, err := wallet.NewKeystore(n.cfg.KeystoreDir())
		if err != nil {
			rpcServer.Stop()
			return fmt.Errorf("create wallet keystore: %w", err)
		}
		rpcServer.SetKeystore(ks)
		n.logger.Info().Str("path", n.cfg.KeystoreDir()).Msg("wallet RPC enabled")
	}

	n.rpcServer = rpcServer
	return nil
}

// Start launches the apply loop and, if a verifier key is configured, the
// heartbeat loop. It returns immediately; background work runs until Stop.
func (n *Node) Start() error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.runApplyLoop()
	}()

	if n.verifierKey != nil && n.p2pNode != nil {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.runHeartbeat(60 * time.Second)
		}()
	}

	n.logger.Info().
		Uint64("height", n.Height()).
		Bool("p2p", n.p2pNode != nil).
		Bool("rpc", n.rpcServer != nil).
		Msg("node started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order of setup.
func (n *Node) Stop() {
	n.cancel()
	n.wg.Wait()
	n.teardown()
	n.logger.Info().Msg("Goodbye!")
}

func (n *Node) teardown() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.p2pNode != nil {
		n.p2pNode.Stop()
	}
	if n.verifierKey != nil {
		n.verifierKey.Zero()
	}
	if n.db != nil {
		n.db.Close()
	}
}

// RPCAddr returns the address the RPC server is listening on, or "" if
// RPC is disabled.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// P2PAddrs returns this node's dialable libp2p multiaddrs, or nil if P2P is
// disabled. Used to wire seed addresses between in-process test nodes.
func (n *Node) P2PAddrs() []string {
	if n.p2pNode == nil {
		return nil
	}
	return n.p2pNode.Addrs()
}

// Height reports the deepest known vertex among the current DAG tips — the
// closest ChronX analogue to a block-height progress counter.
func (n *Node) Height() uint64 {
	tips, err := n.store.Tips()
	if err != nil {
		return 0
	}
	var max uint64
	for _, t := range tips {
		if d, ok, _ := n.store.GetDepth(t); ok && d > max {
			max = d
		}
	}
	return max
}

// ── Apply loop ──────────────────────────────────────────────────────

// runApplyLoop drains both locally-submitted (via RPC/mempool) and
// gossip-received transactions, applies each through the engine, and on
// success rebroadcasts it and feeds the difficulty retargeter.
func (n *Node) runApplyLoop() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case tx := <-n.inbound:
			n.applyAndBroadcast(tx, false)
		case <-ticker.C:
			for _, tx := range n.pool.Drain(16) {
				n.applyAndBroadcast(tx, true)
			}
		}
	}
}

func (n *Node) applyAndBroadcast(tx *chain.Transaction, fromPool bool) {
	now := types.Timestamp(time.Now().Unix())
	if err := n.engine.Apply(tx, now); err != nil {
		n.logger.Debug().Err(err).Str("tx", tx.TxId.String()).Msg("transaction rejected")
		if fromPool {
			n.pool.Remove(tx.TxId)
		}
		return
	}
	if fromPool {
		n.pool.Remove(tx.TxId)
	}

	if n.p2pNode != nil {
		if err := n.p2pNode.BroadcastVertex(tx); err != nil {
			n.logger.Warn().Err(err).Msg("failed to broadcast vertex")
		}
	}

	if n.verifierKey != nil {
		if count, becameFinal := n.finality.Confirm(tx.TxId, n.verifierID, 1); becameFinal {
			n.logger.Debug().Str("tx", tx.TxId.String()).Int("confirmers", count).Msg("vertex reached finality")
		}
	}

	if newDifficulty, changed := n.retarget.Solve(now); changed {
		n.engine.SetDifficulty(newDifficulty)
		if err := n.store.PutMetaU64(store.MetaKeyDifficulty, uint64(newDifficulty)); err != nil {
			n.logger.Warn().Err(err).Msg("failed to persist retargeted difficulty")
		}
		n.logger.Info().Int("difficulty", newDifficulty).Msg("PoW difficulty adjusted")
	}
}

// ── Heartbeat ───────────────────────────────────────────────────────

func (n *Node) runHeartbeat(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n.sendHeartbeat()
	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			n.sendHeartbeat()
		}
	}
}

func (n *Node) sendHeartbeat() {
	pubKey := types.DilithiumPublicKey(n.verifierKey.PublicKey())
	ts := time.Now().Unix()
	data := p2p.HeartbeatSigningBytes(pubKey, ts)
	sig, err := n.verifierKey.Sign(data)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to sign heartbeat")
		return
	}
	msg := &p2p.HeartbeatMessage{
		PubKey:    pubKey,
		AccountId: n.verifierID,
		Timestamp: ts,
		Signature: types.DilithiumSignature(sig),
	}
	if err := n.p2pNode.BroadcastHeartbeat(msg); err != nil {
		n.logger.Debug().Err(err).Msg("failed to broadcast heartbeat")
	}
}

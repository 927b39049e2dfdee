// Package rpc implements ChronX's JSON-RPC 2.0 API server: reads
// go straight to the store, writes are validated structurally and enqueued
// to the mempool for the single apply task to pick up.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/chronx-io/chronx/config"
	klog "github.com/chronx-io/chronx/internal/log"
	"github.com/chronx-io/chronx/internal/mempool"
	"github.com/chronx-io/chronx/internal/p2p"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/internal/wallet"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Server is the JSON-RPC 2.0 HTTP server fronting a single node's store,
// mempool, and P2P handle.
type Server struct {
	addr       string
	store      *store.Store
	pool       *mempool.Pool
	p2pNode    *p2p.Node
	genesis    *config.Genesis
	difficulty func() int // current PoW difficulty bits, from the retargeter

	keystore *wallet.Keystore // nil disables wallet_* endpoints

	server      *http.Server
	logger      zerolog.Logger
	ln          net.Listener
	allowedNets []*net.IPNet
	corsOrigins []string
}

// New creates a new RPC server. difficultyFn reports the current PoW
// difficulty; a zero-value RPCConfig allows all IPs and disables CORS.
func New(addr string, s *store.Store, pool *mempool.Pool, p2pNode *p2p.Node,
	genesis *config.Genesis, difficultyFn func() int, rpcCfg ...config.RPCConfig) *Server {

	srv := &Server{
		addr:       addr,
		store:      s,
		pool:       pool,
		p2pNode:    p2pNode,
		genesis:    genesis,
		difficulty: difficultyFn,
		logger:     klog.WithComponent("rpc"),
	}

	if len(rpcCfg) > 0 {
		srv.allowedNets = parseAllowedIPs(rpcCfg[0].AllowedIPs)
		srv.corsOrigins = rpcCfg[0].CORSOrigins
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRequest)

	srv.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv
}

// SetKeystore enables wallet_* endpoints backed by ks.
func (s *Server) SetKeystore(ks *wallet.Keystore) {
	s.keystore = ks
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine. It returns
// immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("RPC server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsOrigins) == 0 {
		return
	}
	origin := r.Header.Get("Origin")
	allowed := false
	for _, o := range s.corsOrigins {
		if o == "*" || o == origin {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}
	if s.corsOrigins[0] == "*" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// handleRequest is the main HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if len(s.allowedNets) > 0 {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ip := net.ParseIP(host)
		if ip == nil || !s.isIPAllowed(ip) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	s.setCORSHeaders(w, r)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, nil, CodeInvalidRequest, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, nil, CodeParseError, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, nil, CodeInvalidRequest, "request body too large")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, CodeParseError, "invalid JSON")
		return
	}
	if req.JSONRPC != "2.0" {
		writeError(w, req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"")
		return
	}

	result, rpcErr := s.dispatch(&req)
	if rpcErr != nil {
		writeJSON(w, Response{JSONRPC: "2.0", Error: rpcErr, ID: req.ID})
		return
	}
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: req.ID})
}

// dispatch routes a request to the appropriate handler.
func (s *Server) dispatch(req *Request) (interface{}, *Error) {
	switch req.Method {
	case "chain_getInfo":
		return s.handleChainGetInfo(req)
	case "account_get":
		return s.handleAccountGet(req)
	case "tx_get":
		return s.handleTxGet(req)
	case "tx_submit":
		return s.handleTxSubmit(req)
	case "timelock_get":
		return s.handleTimeLockGet(req)
	case "timelock_list":
		return s.handleTimeLockList(req)
	case "claim_get":
		return s.handleClaimGet(req)
	case "provider_get":
		return s.handleProviderGet(req)
	case "schema_get":
		return s.handleSchemaGet(req)
	case "oracle_getSnapshot":
		return s.handleOracleGetSnapshot(req)
	case "mempool_getInfo":
		return s.handleMempoolGetInfo(req)
	case "net_getInfo":
		return s.handleNetGetInfo(req)
	case "net_getBanList":
		return s.handleNetGetBanList(req)
	case "wallet_listAccounts":
		return s.handleWalletListAccounts(req)
	case "wallet_getBalance":
		return s.handleWalletGetBalance(req)
	case "wallet_send":
		return s.handleWalletSend(req)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, id interface{}, code int, msg string) {
	writeJSON(w, Response{JSONRPC: "2.0", Error: &Error{Code: code, Message: msg}, ID: id})
}

// decodeParams re-marshals req.Params (already decoded by encoding/json as
// map[string]interface{}) into dst.
func decodeParams(req *Request, dst interface{}) error {
	b, err := json.Marshal(req.Params)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

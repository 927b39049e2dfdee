// Package store provides ChronX's namespaced persistence layer: ten
// isolated key spaces over a single underlying KV database,
// using a prefixed-key BadgerDB pattern.
package store

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/codec"
	"github.com/chronx-io/chronx/internal/storage"
	"github.com/chronx-io/chronx/pkg/types"
)

// Namespace prefixes, one byte each, isolating the ten logical tables named
// one namespace per record kind: accounts, vertices, timelocks, dag_tips, meta, providers,
// schemas, claims, oracle_snapshots, oracle_submissions.
const (
	nsAccounts          byte = 'a'
	nsVertices          byte = 'v'
	nsTimeLocks         byte = 'l'
	nsDagTips           byte = 't'
	nsMeta              byte = 'm'
	nsProviders         byte = 'p'
	nsSchemas           byte = 's'
	nsClaims            byte = 'c'
	nsOracleSnapshots   byte = 'o'
	nsOracleSubmissions byte = 'u'
)

// Meta keys within the meta namespace.
var (
	MetaKeyDifficulty   = []byte("difficulty")
	MetaKeyLastRetarget = []byte("last_retarget")
	MetaKeySolveCount   = []byte("solve_count")
	MetaKeyGenesisDone  = []byte("genesis_done")
	MetaKeySchemaSeq    = []byte("schema_seq")
)

// Store is ChronX's state store: a namespaced wrapper around a single
// storage.DB, opening one storage.PrefixDB per logical table.
type Store struct {
	db        storage.DB
	accounts  *storage.PrefixDB
	vertices  *storage.PrefixDB
	timelocks *storage.PrefixDB
	dagTips   *storage.PrefixDB
	meta      *storage.PrefixDB
	providers *storage.PrefixDB
	schemas   *storage.PrefixDB
	claims    *storage.PrefixDB
	oSnap     *storage.PrefixDB
	oSubmit   *storage.PrefixDB
}

// Open wraps an existing storage.DB (typically a *storage.BadgerDB) with
// ChronX's namespace layout.
func Open(db storage.DB) *Store {
	return &Store{
		db:        db,
		accounts:  storage.NewPrefixDB(db, []byte{nsAccounts}),
		vertices:  storage.NewPrefixDB(db, []byte{nsVertices}),
		timelocks: storage.NewPrefixDB(db, []byte{nsTimeLocks}),
		dagTips:   storage.NewPrefixDB(db, []byte{nsDagTips}),
		meta:      storage.NewPrefixDB(db, []byte{nsMeta}),
		providers: storage.NewPrefixDB(db, []byte{nsProviders}),
		schemas:   storage.NewPrefixDB(db, []byte{nsSchemas}),
		claims:    storage.NewPrefixDB(db, []byte{nsClaims}),
		oSnap:     storage.NewPrefixDB(db, []byte{nsOracleSnapshots}),
		oSubmit:   storage.NewPrefixDB(db, []byte{nsOracleSubmissions}),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// --- accounts ---

func (s *Store) GetAccount(id types.AccountId) (*chain.Account, bool, error) {
	v, err := s.accounts.Get(id[:])
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeAccount(codec.NewReader(v)), true, nil
}

func (s *Store) PutAccount(a *chain.Account) error {
	w := codec.NewWriter()
	a.Encode(w)
	return s.accounts.Put(a.Id[:], w.Bytes())
}

// --- vertices (DAG transactions) ---

func (s *Store) GetTransaction(id types.TxId) (*chain.Transaction, bool, error) {
	v, err := s.vertices.Get(id[:])
	if err != nil {
		return nil, false, nil
	}
	tx, decErr := chain.DecodeTransaction(v)
	if decErr != nil {
		return nil, false, decErr
	}
	return tx, true, nil
}

func (s *Store) PutTransaction(tx *chain.Transaction) error {
	return s.vertices.Put(tx.TxId[:], tx.Encode())
}

func (s *Store) HasTransaction(id types.TxId) (bool, error) {
	return s.vertices.Has(id[:])
}

// --- timelocks ---

func (s *Store) GetTimeLock(id types.TimeLockId) (*chain.TimeLockContract, bool, error) {
	v, err := s.timelocks.Get(id[:])
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeTimeLockContract(codec.NewReader(v)), true, nil
}

func (s *Store) PutTimeLock(l *chain.TimeLockContract) error {
	w := codec.NewWriter()
	l.Encode(w)
	return s.timelocks.Put(l.Id[:], w.Bytes())
}

// ForEachTimeLock walks every persisted lock, for paginated and filtered
// RPC lock list queries. Callers filter/paginate in
// memory; the namespace has no secondary index by sender/recipient.
func (s *Store) ForEachTimeLock(fn func(*chain.TimeLockContract) error) error {
	return s.timelocks.ForEach(nil, func(_, v []byte) error {
		return fn(chain.DecodeTimeLockContract(codec.NewReader(v)))
	})
}

// --- claims ---

func (s *Store) GetClaim(lockId types.TimeLockId) (*chain.ClaimState, bool, error) {
	v, err := s.claims.Get(lockId[:])
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeClaimState(codec.NewReader(v)), true, nil
}

func (s *Store) PutClaim(c *chain.ClaimState) error {
	w := codec.NewWriter()
	c.Encode(w)
	return s.claims.Put(c.LockId[:], w.Bytes())
}

func (s *Store) DeleteClaim(lockId types.TimeLockId) error {
	return s.claims.Delete(lockId[:])
}

// --- providers ---

func (s *Store) GetProvider(id types.AccountId) (*chain.ProviderRecord, bool, error) {
	v, err := s.providers.Get(id[:])
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeProviderRecord(codec.NewReader(v)), true, nil
}

func (s *Store) PutProvider(p *chain.ProviderRecord) error {
	w := codec.NewWriter()
	p.Encode(w)
	return s.providers.Put(p.Id[:], w.Bytes())
}

// --- schemas ---

func schemaKey(id chain.SchemaId) []byte {
	w := codec.NewWriter()
	w.U64(id)
	return w.Bytes()
}

func (s *Store) GetSchema(id chain.SchemaId) (*chain.CertificateSchema, bool, error) {
	v, err := s.schemas.Get(schemaKey(id))
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeCertificateSchema(codec.NewReader(v)), true, nil
}

func (s *Store) PutSchema(sc *chain.CertificateSchema) error {
	w := codec.NewWriter()
	sc.Encode(w)
	return s.schemas.Put(schemaKey(sc.Id), w.Bytes())
}

// NextSchemaId allocates a monotonically increasing schema id from the meta
// namespace's persistent counter.
func (s *Store) NextSchemaId() (chain.SchemaId, error) {
	cur := uint64(0)
	if v, err := s.meta.Get(MetaKeySchemaSeq); err == nil {
		cur = codec.NewReader(v).U64()
	}
	next := cur + 1
	w := codec.NewWriter()
	w.U64(next)
	if err := s.meta.Put(MetaKeySchemaSeq, w.Bytes()); err != nil {
		return 0, err
	}
	return next, nil
}

// --- oracle ---

func oracleSubmissionKey(pair string, submitter types.AccountId) []byte {
	w := codec.NewWriter()
	w.VarString(pair)
	w.Bytes32(submitter)
	return w.Bytes()
}

func (s *Store) PutOracleSubmission(o *chain.OracleSubmission) error {
	w := codec.NewWriter()
	o.Encode(w)
	return s.oSubmit.Put(oracleSubmissionKey(o.Pair, o.Submitter), w.Bytes())
}

func (s *Store) ForEachOracleSubmission(pair string, fn func(*chain.OracleSubmission) error) error {
	prefix := codec.NewWriter().VarString(pair).Bytes()
	return s.oSubmit.ForEach(prefix, func(_, value []byte) error {
		return fn(chain.DecodeOracleSubmission(codec.NewReader(value)))
	})
}

func (s *Store) GetOracleSnapshot(pair string) (*chain.OracleSnapshot, bool, error) {
	v, err := s.oSnap.Get([]byte(pair))
	if err != nil {
		return nil, false, nil
	}
	return chain.DecodeOracleSnapshot(codec.NewReader(v)), true, nil
}

func (s *Store) PutOracleSnapshot(o *chain.OracleSnapshot) error {
	w := codec.NewWriter()
	o.Encode(w)
	return s.oSnap.Put([]byte(o.Pair), w.Bytes())
}

// --- vertex depth ---

func depthKey(id types.TxId) []byte {
	return append([]byte("depth:"), id[:]...)
}

// GetDepth returns the persisted DAG depth of a vertex.
func (s *Store) GetDepth(id types.TxId) (uint64, bool, error) {
	v, err := s.meta.Get(depthKey(id))
	if err != nil {
		return 0, false, nil
	}
	return codec.NewReader(v).U64(), true, nil
}

// --- DAG tips ---

// PutTip marks id as a current tip (a transaction with no confirmed child).
func (s *Store) PutTip(id types.TxId) error {
	return s.dagTips.Put(id[:], []byte{1})
}

// RemoveTip clears id's tip status once it gains a child.
func (s *Store) RemoveTip(id types.TxId) error {
	return s.dagTips.Delete(id[:])
}

// Tips returns every current DAG tip.
func (s *Store) Tips() ([]types.TxId, error) {
	var out []types.TxId
	err := s.dagTips.ForEach(nil, func(key, _ []byte) error {
		var id types.TxId
		copy(id[:], key)
		out = append(out, id)
		return nil
	})
	return out, err
}

// --- meta ---

func (s *Store) GetMetaU64(key []byte) (uint64, bool, error) {
	v, err := s.meta.Get(key)
	if err != nil {
		return 0, false, nil
	}
	return codec.NewReader(v).U64(), true, nil
}

func (s *Store) PutMetaU64(key []byte, v uint64) error {
	w := codec.NewWriter()
	w.U64(v)
	return s.meta.Put(key, w.Bytes())
}

// --- atomic cross-namespace batch ---

// Batch stages writes across every namespace for a single atomic commit —
// used by internal/engine to apply a transaction's full effect set or none
// of it: it commits atomically only on full success.
type Batch struct {
	s   *Store
	ops []batchOp
}

type batchOp struct {
	ns     *storage.PrefixDB
	key    []byte
	value  []byte
	delete bool
}

// NewBatch begins a new cross-namespace batch bound to this store.
func (s *Store) NewBatch() *Batch { return &Batch{s: s} }

func (b *Batch) PutAccount(a *chain.Account) {
	w := codec.NewWriter()
	a.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.accounts, key: append([]byte{}, a.Id[:]...), value: w.Bytes()})
}

func (b *Batch) PutTransaction(tx *chain.Transaction) {
	b.ops = append(b.ops, batchOp{ns: b.s.vertices, key: append([]byte{}, tx.TxId[:]...), value: tx.Encode()})
}

func (b *Batch) PutTimeLock(l *chain.TimeLockContract) {
	w := codec.NewWriter()
	l.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.timelocks, key: append([]byte{}, l.Id[:]...), value: w.Bytes()})
}

func (b *Batch) PutClaim(c *chain.ClaimState) {
	w := codec.NewWriter()
	c.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.claims, key: append([]byte{}, c.LockId[:]...), value: w.Bytes()})
}

func (b *Batch) DeleteClaim(lockId types.TimeLockId) {
	b.ops = append(b.ops, batchOp{ns: b.s.claims, key: append([]byte{}, lockId[:]...), delete: true})
}

func (b *Batch) PutProvider(p *chain.ProviderRecord) {
	w := codec.NewWriter()
	p.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.providers, key: append([]byte{}, p.Id[:]...), value: w.Bytes()})
}

func (b *Batch) PutSchema(sc *chain.CertificateSchema) {
	w := codec.NewWriter()
	sc.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.schemas, key: schemaKey(sc.Id), value: w.Bytes()})
}

func (b *Batch) PutOracleSnapshot(o *chain.OracleSnapshot) {
	w := codec.NewWriter()
	o.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.oSnap, key: []byte(o.Pair), value: w.Bytes()})
}

func (b *Batch) PutOracleSubmission(o *chain.OracleSubmission) {
	w := codec.NewWriter()
	o.Encode(w)
	b.ops = append(b.ops, batchOp{ns: b.s.oSubmit, key: oracleSubmissionKey(o.Pair, o.Submitter), value: w.Bytes()})
}

func (b *Batch) PutTip(id types.TxId) {
	b.ops = append(b.ops, batchOp{ns: b.s.dagTips, key: append([]byte{}, id[:]...), value: []byte{1}})
}

func (b *Batch) RemoveTip(id types.TxId) {
	b.ops = append(b.ops, batchOp{ns: b.s.dagTips, key: append([]byte{}, id[:]...), delete: true})
}

func (b *Batch) PutDepth(id types.TxId, depth uint64) {
	w := codec.NewWriter()
	w.U64(depth)
	b.ops = append(b.ops, batchOp{ns: b.s.meta, key: depthKey(id), value: w.Bytes()})
}

func (b *Batch) PutMetaU64(key []byte, v uint64) {
	w := codec.NewWriter()
	w.U64(v)
	b.ops = append(b.ops, batchOp{ns: b.s.meta, key: key, value: w.Bytes()})
}

// Commit applies every staged write as one atomic transaction against the
// underlying database when it implements storage.Batcher, falling back to
// an ordered sequence of individual writes otherwise.
func (b *Batch) Commit() error {
	batcher, ok := b.s.db.(storage.Batcher)
	if !ok {
		for _, op := range b.ops {
			if op.delete {
				if err := op.ns.Delete(op.key); err != nil {
					return err
				}
				continue
			}
			if err := op.ns.Put(op.key, op.value); err != nil {
				return err
			}
		}
		return nil
	}
	raw := batcher.NewBatch()
	for _, op := range b.ops {
		prefixed := op.ns.PrefixedKey(op.key)
		if op.delete {
			if err := raw.Delete(prefixed); err != nil {
				return err
			}
			continue
		}
		if err := raw.Put(prefixed, op.value); err != nil {
			return err
		}
	}
	return raw.Commit()
}

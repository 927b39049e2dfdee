// Package engine implements ChronX's state engine: the single
// atomic dispatcher that applies a transaction's actions against an
// in-memory staging buffer and commits them as one unit, or discards the
// buffer and returns the originating error.
package engine

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/types"
)

// stage is the in-memory staging buffer for a single Apply call. Reads fall
// through to the backing store on a miss; writes land only in the stage
// until Engine.Apply commits them as a store.Batch.
type stage struct {
	s *store.Store

	accounts  map[types.AccountId]*chain.Account
	timelocks map[types.TimeLockId]*chain.TimeLockContract
	claims    map[types.TimeLockId]*chain.ClaimState
	claimsDel map[types.TimeLockId]bool
	providers map[types.AccountId]*chain.ProviderRecord
	schemas   map[chain.SchemaId]*chain.CertificateSchema
	oSubmit   []*chain.OracleSubmission
	oSnap     map[string]*chain.OracleSnapshot
	newTips   []types.TxId
	spentTips []types.TxId
	depths    map[types.TxId]uint64
	newTx     *chain.Transaction
}

func newStage(s *store.Store) *stage {
	return &stage{
		s:         s,
		accounts:  make(map[types.AccountId]*chain.Account),
		timelocks: make(map[types.TimeLockId]*chain.TimeLockContract),
		claims:    make(map[types.TimeLockId]*chain.ClaimState),
		claimsDel: make(map[types.TimeLockId]bool),
		providers: make(map[types.AccountId]*chain.ProviderRecord),
		schemas:   make(map[chain.SchemaId]*chain.CertificateSchema),
		oSnap:     make(map[string]*chain.OracleSnapshot),
		depths:    make(map[types.TxId]uint64),
	}
}

func (g *stage) account(id types.AccountId) (*chain.Account, error) {
	if a, ok := g.accounts[id]; ok {
		return a, nil
	}
	a, found, err := g.s.GetAccount(id)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.accounts[id] = a
	return a, nil
}

func (g *stage) putAccount(a *chain.Account) {
	g.accounts[a.Id] = a
}

func (g *stage) timelock(id types.TimeLockId) (*chain.TimeLockContract, error) {
	if l, ok := g.timelocks[id]; ok {
		return l, nil
	}
	l, found, err := g.s.GetTimeLock(id)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.timelocks[id] = l
	return l, nil
}

func (g *stage) putTimeLock(l *chain.TimeLockContract) {
	g.timelocks[l.Id] = l
}

func (g *stage) claim(lockId types.TimeLockId) (*chain.ClaimState, error) {
	if g.claimsDel[lockId] {
		return nil, nil
	}
	if c, ok := g.claims[lockId]; ok {
		return c, nil
	}
	c, found, err := g.s.GetClaim(lockId)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.claims[lockId] = c
	return c, nil
}

func (g *stage) putClaim(c *chain.ClaimState) {
	delete(g.claimsDel, c.LockId)
	g.claims[c.LockId] = c
}

func (g *stage) deleteClaim(lockId types.TimeLockId) {
	delete(g.claims, lockId)
	g.claimsDel[lockId] = true
}

func (g *stage) provider(id types.AccountId) (*chain.ProviderRecord, error) {
	if p, ok := g.providers[id]; ok {
		return p, nil
	}
	p, found, err := g.s.GetProvider(id)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.providers[id] = p
	return p, nil
}

func (g *stage) putProvider(p *chain.ProviderRecord) {
	g.providers[p.Id] = p
}

func (g *stage) schema(id chain.SchemaId) (*chain.CertificateSchema, error) {
	if sc, ok := g.schemas[id]; ok {
		return sc, nil
	}
	sc, found, err := g.s.GetSchema(id)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.schemas[id] = sc
	return sc, nil
}

func (g *stage) putSchema(sc *chain.CertificateSchema) {
	g.schemas[sc.Id] = sc
}

func (g *stage) oracleSnapshot(pair string) (*chain.OracleSnapshot, error) {
	if o, ok := g.oSnap[pair]; ok {
		return o, nil
	}
	o, found, err := g.s.GetOracleSnapshot(pair)
	if err != nil {
		return nil, chain.Errf(chain.ErrStorage, "%v", err)
	}
	if !found {
		return nil, nil
	}
	g.oSnap[pair] = o
	return o, nil
}

func (g *stage) putOracleSnapshot(o *chain.OracleSnapshot) {
	g.oSnap[o.Pair] = o
}

func (g *stage) addOracleSubmission(o *chain.OracleSubmission) {
	g.oSubmit = append(g.oSubmit, o)
}

// commit flushes every staged change into a single atomic store.Batch.
func (g *stage) commit() error {
	b := g.s.NewBatch()
	if g.newTx != nil {
		b.PutTransaction(g.newTx)
	}
	for _, a := range g.accounts {
		b.PutAccount(a)
	}
	for _, l := range g.timelocks {
		b.PutTimeLock(l)
	}
	for lockId := range g.claimsDel {
		b.DeleteClaim(lockId)
	}
	for _, c := range g.claims {
		b.PutClaim(c)
	}
	for _, p := range g.providers {
		b.PutProvider(p)
	}
	for _, sc := range g.schemas {
		b.PutSchema(sc)
	}
	for _, o := range g.oSubmit {
		b.PutOracleSubmission(o)
	}
	for _, o := range g.oSnap {
		b.PutOracleSnapshot(o)
	}
	for _, id := range g.spentTips {
		b.RemoveTip(id)
	}
	for _, id := range g.newTips {
		b.PutTip(id)
	}
	for id, depth := range g.depths {
		b.PutDepth(id, depth)
	}
	if err := b.Commit(); err != nil {
		return chain.Errf(chain.ErrStorage, "%v", err)
	}
	return nil
}

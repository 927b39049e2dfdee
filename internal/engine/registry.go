package engine

import (
	"sort"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

func (e *Engine) applyRegisterProvider(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.BondAmount.Cmp(types.NewBalance(chain.ProviderBondChronos)) < 0 {
		return chain.Err(chain.ErrProviderBondTooLow)
	}
	existing, err := g.provider(tx.From)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == chain.ProviderActive {
		return chain.Err(chain.ErrProviderAlreadyRegistered)
	}

	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(sender, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(sender)

	var keys []types.DilithiumPublicKey
	if sender.HasRegisteredKey() {
		switch sender.Policy.Kind {
		case chain.AuthSingleSig, chain.AuthRecoveryEnabled:
			keys = []types.DilithiumPublicKey{sender.Policy.OwnerKey}
		case chain.AuthMultiSig:
			keys = append(keys, sender.Policy.Keys...)
		}
	}

	g.putProvider(&chain.ProviderRecord{
		Id:            tx.From,
		Class:         a.ProviderClass,
		Jurisdictions: a.Jurisdictions,
		Status:        chain.ProviderActive,
		Bond:          a.BondAmount,
		Keys:          keys,
	})
	return nil
}

func (e *Engine) applyRevokeProvider(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	p, err := g.provider(tx.From)
	if err != nil {
		return err
	}
	if p == nil {
		return chain.Err(chain.ErrProviderNotFound)
	}
	if p.Status != chain.ProviderActive {
		return chain.Err(chain.ErrProviderRevoked)
	}
	p.Status = chain.ProviderStatusRevoked
	p.RevokedAt = now
	g.putProvider(p)

	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	sender.Balance = sender.Balance.Add(p.Bond)
	g.putAccount(sender)
	return nil
}

func (e *Engine) applyRotateProviderKey(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	p, err := g.provider(tx.From)
	if err != nil {
		return err
	}
	if p == nil || p.Status != chain.ProviderActive {
		return chain.Err(chain.ErrProviderNotFound)
	}
	p.Keys = append(p.Keys, a.NewPublicKey)
	g.putProvider(p)
	return nil
}

func (e *Engine) applyRegisterSchema(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.BondAmount.Cmp(types.NewBalance(chain.SchemaBondChronos)) < 0 {
		return chain.Err(chain.ErrSchemaBondTooLow)
	}
	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(sender, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(sender)

	id, err := e.store.NextSchemaId()
	if err != nil {
		return chain.Errf(chain.ErrStorage, "%v", err)
	}
	g.putSchema(&chain.CertificateSchema{
		Id:                 id,
		Name:               a.SchemaName,
		Version:            a.SchemaVersion,
		RequiredFieldsHash: a.RequiredFieldsHash,
		ClassThresholds:    a.ClassThresholds,
		MinProviders:       a.MinProviders,
		MaxCertAgeSecs:     a.MaxCertAgeSecs,
		Bond:               a.BondAmount,
		RegisteredBy:       tx.From,
		Active:             true,
	})
	return nil
}

func (e *Engine) applyDeactivateSchema(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	sc, err := g.schema(a.SchemaId)
	if err != nil {
		return err
	}
	if sc == nil {
		return chain.Err(chain.ErrSchemaNotFound)
	}
	if sc.RegisteredBy != tx.From {
		return chain.Err(chain.ErrAuthPolicyViolation)
	}
	sc.Active = false
	g.putSchema(sc)
	return nil
}

func (e *Engine) applySubmitOraclePrice(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	p, err := g.provider(tx.From)
	if err != nil {
		return err
	}
	if p == nil || p.Status != chain.ProviderActive || p.Class != "oracle" {
		return chain.Err(chain.ErrProviderNotFound)
	}

	g.addOracleSubmission(&chain.OracleSubmission{
		Pair:        a.Pair,
		Submitter:   tx.From,
		PriceCents:  a.PriceCents,
		SubmittedAt: now,
	})

	var samples []uint64
	samples = append(samples, a.PriceCents)
	err = e.store.ForEachOracleSubmission(a.Pair, func(o *chain.OracleSubmission) error {
		if o.Submitter == tx.From {
			return nil // superseded by the freshly staged submission above
		}
		if int64(now)-int64(o.SubmittedAt) <= chain.OracleMaxAgeSecs {
			samples = append(samples, o.PriceCents)
		}
		return nil
	})
	if err != nil {
		return chain.Errf(chain.ErrStorage, "%v", err)
	}

	if len(samples) >= chain.OracleMinSubmissions {
		g.putOracleSnapshot(&chain.OracleSnapshot{
			Pair:        a.Pair,
			PriceCents:  median(samples),
			ComputedAt:  now,
			SampleCount: uint32(len(samples)),
		})
	}
	return nil
}

func median(samples []uint64) uint64 {
	sorted := append([]uint64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

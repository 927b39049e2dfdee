package dag

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// ParentExistsFunc reports whether a TxId names an already-admitted vertex.
type ParentExistsFunc func(types.TxId) bool

// ValidateStructure runs the ordered structural checks against
// tx, given the current PoW difficulty and a parent-lookup callback. It does
// not check signatures; callers run ValidateSignatures separately once the
// sender's stored auth policy is available.
func ValidateStructure(tx *chain.Transaction, difficulty int, parentExists ParentExistsFunc) error {
	if !tx.IsGenesis() {
		if len(tx.Parents) < chain.DAGMinParents {
			return chain.Err(chain.ErrTooFewParents)
		}
		if len(tx.Parents) > chain.DAGMaxParents {
			return chain.Err(chain.ErrTooManyParents)
		}
		for _, p := range tx.Parents {
			if !parentExists(p) {
				return chain.Errf(chain.ErrUnknownParent, "%x", p[:])
			}
		}
	}

	body := tx.BodyBytes()
	if !crypto.VerifyPoW(body, tx.PowNonce, difficulty) {
		return chain.Err(chain.ErrInvalidPoW)
	}
	if crypto.TxIdFromBody(body) != tx.TxId {
		return chain.Errf(chain.ErrDuplicateVertex, "tx_id does not match body hash")
	}
	return nil
}

// ValidateSignatures dispatches on the sender's stored auth policy:
// SingleSig requires exactly one signature under the stored key;
// MultiSig(k, keys) requires at least k distinct keys to each verify one
// signature, with no signature reused; RecoveryEnabled behaves as SingleSig
// over the current owner key. A scheme/policy mismatch is a policy
// violation.
func ValidateSignatures(tx *chain.Transaction, policy chain.AuthPolicy) error {
	body := tx.BodyBytes()

	switch policy.Kind {
	case chain.AuthSingleSig, chain.AuthRecoveryEnabled:
		if tx.AuthScheme.MultiSig {
			return chain.Err(chain.ErrAuthPolicyViolation)
		}
		if len(tx.Signatures) != 1 {
			return chain.Err(chain.ErrInvalidSignature)
		}
		if !crypto.VerifySignature(body, tx.Signatures[0], policy.OwnerKey) {
			return chain.Err(chain.ErrInvalidSignature)
		}
		return nil

	case chain.AuthMultiSig:
		if !tx.AuthScheme.MultiSig {
			return chain.Err(chain.ErrAuthPolicyViolation)
		}
		k := int(policy.Threshold)
		if k == 0 {
			k = int(tx.AuthScheme.K)
		}
		usedKey := make(map[int]bool, len(policy.Keys))
		usedSig := make(map[int]bool, len(tx.Signatures))
		matched := 0
		for si, sig := range tx.Signatures {
			if usedSig[si] {
				continue
			}
			for ki, key := range policy.Keys {
				if usedKey[ki] {
					continue
				}
				if crypto.VerifySignature(body, sig, key) {
					usedKey[ki] = true
					usedSig[si] = true
					matched++
					break
				}
			}
		}
		if matched < k {
			return chain.Err(chain.ErrMultisigThresholdNotMet)
		}
		return nil

	default:
		return chain.Err(chain.ErrAuthPolicyViolation)
	}
}

package server

import (
	"encoding/hex"
	"errors"
	"math/big"
)

// Token amounts cross the wire as decimal strings in base units; they can
// exceed what a JSON number safely carries.

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New("amount must be a non-negative decimal string")
	}
	return v, nil
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// parseProof decodes a membership proof sent as hex-encoded sibling hashes.
func parseProof(proof []string) ([][]byte, error) {
	if len(proof) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(proof))
	for i, p := range proof {
		b, err := hex.DecodeString(p)
		if err != nil {
			return nil, errors.New("proof entries must be hex encoded")
		}
		out[i] = b
	}
	return out, nil
}

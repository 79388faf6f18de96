package domain

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerEther, _ = new(big.Int).SetString(WEI_PER_ETHER, 10)

// ParseEther converts a decimal ether amount (e.g. "0.01") into wei.
// Negative amounts and amounts finer than one wei are rejected.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %s", amount)
	}

	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount has more than 18 decimals: %s", amount)
	}

	return new(big.Int).Set(r.Num()), nil
}

// FormatEther converts wei into its canonical decimal ether representation
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	q, m := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	if m.Sign() == 0 {
		return q.String()
	}

	frac := fmt.Sprintf("%018s", m.String())
	frac = strings.TrimRight(frac, "0")
	return q.String() + "." + frac
}

// FormatWeiString converts a base-10 wei string into ether, returning the input on parse failure
func FormatWeiString(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei
	}
	return FormatEther(v)
}

// NormalizePrice returns the canonical form of a decimal ether amount
func NormalizePrice(amount string) (string, error) {
	wei, err := ParseEther(amount)
	if err != nil {
		return "", err
	}
	return FormatEther(wei), nil
}

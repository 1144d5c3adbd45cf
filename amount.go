package api

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const COIN_DECIMALS = 12

// FormatAmount renders atomic units as a fixed point coin amount.
func FormatAmount(amount uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -COIN_DECIMALS).StringFixed(COIN_DECIMALS)
}

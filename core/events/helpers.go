package events

import (
	"math/big"
	"strconv"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatTime(ts uint64) string {
	return strconv.FormatUint(ts, 10)
}

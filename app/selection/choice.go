package selection

import (
	"hash/fnv"
	"math/big"
)

// ChooseIndex maps seed onto [0, n) using the 128-bit FNV-1a hash of seed.
// The same seed and n always yield the same index. n must be positive.
func ChooseIndex(seed string, n int) int {
	h := fnv.New128a()
	h.Write([]byte(seed))

	sum := new(big.Int).SetBytes(h.Sum(nil))
	return int(sum.Mod(sum, big.NewInt(int64(n))).Int64())
}

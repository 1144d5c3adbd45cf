package api

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// applyPermutation reorders parallel arrays so that the element at position
// i ends up being the one previously at order[i]. swap exchanges positions
// i and j in every array at once.
func applyPermutation(order []int, swap func(i, j int)) error {
	n := len(order)
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n || seen[o] {
			return fmt.Errorf("applyPermutation invalid permutation %v", order)
		}
		seen[o] = true
	}

	perm := append([]int{}, order...)
	for i := 0; i < n; i++ {
		current := i
		for i != perm[current] {
			next := perm[current]
			swap(current, next)
			perm[current] = current
			current = next
		}
		perm[current] = current
	}
	return nil
}

// randomPermutation is a Fisher-Yates shuffle of [0, n) drawn from
// crypto/rand.
func randomPermutation(n int) ([]int, error) {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, err
		}
		k := int(j.Int64())
		order[i], order[k] = order[k], order[i]
	}
	return order, nil
}

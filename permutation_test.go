package api

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPermutation(t *testing.T) {
	assert := assert.New(t)

	a := []string{"a", "b", "c", "d", "e"}
	b := []int{0, 1, 2, 3, 4}
	order := []int{2, 0, 4, 1, 3}
	err := applyPermutation(order, func(i, j int) {
		a[i], a[j] = a[j], a[i]
		b[i], b[j] = b[j], b[i]
	})
	assert.Nil(err)
	assert.Equal([]string{"c", "a", "e", "b", "d"}, a)
	assert.Equal(order, b)

	assert.NotNil(applyPermutation([]int{0, 0}, func(i, j int) {}))
	assert.NotNil(applyPermutation([]int{0, 2}, func(i, j int) {}))
	assert.Nil(applyPermutation(nil, func(i, j int) {}))
}

func TestRandomPermutation(t *testing.T) {
	assert := assert.New(t)

	order, err := randomPermutation(BULLETPROOF_MAX_OUTPUTS)
	assert.Nil(err)
	sorted := append([]int{}, order...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(i, v)
	}

	order, err = randomPermutation(0)
	assert.Nil(err)
	assert.Len(order, 0)
}

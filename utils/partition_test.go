package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	{
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	// Every index lands in the bucket whose range holds it
	{
		for maxIndex := 1; maxIndex < 200; maxIndex++ {
			for _, np := range []int{1, 3, 5, 8} {
				pm := NewPartitionMap(np, maxIndex)
				for k := 0; k < maxIndex; k++ {
					bn, min, max := pm.GetBucket(k)
					assert.True(t, bn >= 0 && k >= min && k < max)
				}
				bn, _, _ := pm.GetBucket(maxIndex)
				assert.Equal(t, -1, bn)
			}
		}
	}
	assert.Equal(t, 1, NewPartitionMap(0, 4).ParallelDegree)
}

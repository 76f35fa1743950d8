package utils

// PartitionMap splits the indices [0, MaxIndex) into ParallelDegree contiguous
// buckets whose sizes differ by at most one. The larger buckets come first.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(parallelDegree, maxIndex int) (pm *PartitionMap) {
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	var (
		size  = maxIndex / parallelDegree
		extra = maxIndex % parallelDegree
		start int
	)
	for np := range pm.Partitions {
		end := start + size
		if np < extra {
			end++
		}
		pm.Partitions[np] = [2]int{start, end}
		start = end
	}
	return
}

// GetBucket returns the bucket holding index k with its range, -1 when k is
// out of range
func (pm *PartitionMap) GetBucket(k int) (bucketNum, min, max int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1, 0, 0
	}
	var (
		size  = pm.MaxIndex / pm.ParallelDegree
		extra = pm.MaxIndex % pm.ParallelDegree
		split = extra * (size + 1)
	)
	if k < split {
		bucketNum = k / (size + 1)
	} else {
		bucketNum = extra + (k-split)/size
	}
	min, max = pm.GetBucketRange(bucketNum)
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bucketNum int) int {
	kMin, kMax := pm.GetBucketRange(bucketNum)
	return kMax - kMin
}

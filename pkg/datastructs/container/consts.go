package container

const (
	// defaultRingCap is the capacity a Ring allocates on its first write.
	defaultRingCap = 16

	// listFreeMax caps the number of detached nodes a List keeps for reuse.
	listFreeMax = 1024
)

package engine

// FindIDInOrderedList locates id in an ascending id list and returns the
// first index whose element equals id, or -1 when absent. The list may
// contain a contiguous prefix of InvalidID (-1) placeholder entries; those
// sort below every real id, so plain binary search still lands correctly.
func FindIDInOrderedList(id int64, list []int64) int {
	lo, hi := 0, len(list)
	for lo < hi {
		mid := (lo + hi) / 2
		if list[mid] < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(list) && list[lo] == id {
		return lo
	}
	return -1
}

package domain

// Keyed is implemented by anything with a dedup identity
type Keyed interface {
	DedupKey() string
}

// Dedup reduces items to one per dedup key. The first occurrence wins and survivors
// keep their input order, so Dedup(Dedup(s)) == Dedup(s).
func Dedup[T Keyed](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	res := make([]T, 0, len(items))
	for _, item := range items {
		key := item.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, item)
	}
	return res
}

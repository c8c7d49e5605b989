// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy holds cached objects and decides which to evict.
type Strategy interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte) bool
	Len() int
}

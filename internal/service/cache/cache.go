package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL. The API
// read path keeps marshaled list and summary payloads here so repeated
// dashboard loads skip the result store.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

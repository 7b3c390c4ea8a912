package memory

import (
	"time"

	"ea-licensing-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// CredentialCache keeps API key lookups off the database for a short while. Keys are the
// sha256 hash of the presented key, never the plaintext.
type CredentialCache struct {
	cache *cache.Cache
}

func NewCredentialCache(ttl time.Duration) *CredentialCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CredentialCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CredentialCache) Save(keyHash string, principal *entity.Principal) {
	r.cache.Set(keyHash, principal, cache.DefaultExpiration)
}

func (r *CredentialCache) Get(keyHash string) (*entity.Principal, bool) {
	if x, found := r.cache.Get(keyHash); found {
		return x.(*entity.Principal), true
	}
	return nil, false
}

func (r *CredentialCache) Delete(keyHash string) {
	r.cache.Delete(keyHash)
}

func (r *CredentialCache) Flush() {
	r.cache.Flush()
}

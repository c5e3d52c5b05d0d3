package embedding

import (
	"crypto/sha256"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider memoizes embeddings in memory. Queries repeat a lot more
// than documents change, so a short TTL is enough to save the round trip
// without a coherence story.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *gocache.Cache
}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) EmbeddingProvider {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := fmt.Sprintf("%s:%x", taskType, sha256.Sum256([]byte(text)))
	if hit, ok := p.cache.Get(key); ok {
		if res, ok := hit.(*EmbeddingResponse); ok {
			return res, nil
		}
	}

	res, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, res, gocache.DefaultExpiration)
	return res, nil
}

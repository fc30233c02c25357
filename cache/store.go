package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/tgvmax-map/config"
)

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLHours) * time.Hour

	switch cfg.Backend {
	case "", "none":
		return NopStore{}, nil
	case "memory":
		return NewMemoryStore(ttl), nil
	case "file":
		return NewFileStore(cfg.Dir, ttl)
	case "s3":
		client, err := NewS3Client(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.Bucket, cfg.Prefix, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

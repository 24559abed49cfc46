// Package redisregistry stores tokens in Redis so several server processes can
// share them. Entries carry no TTL: like the in-memory registry, a token lives
// until it is deleted.
package redisregistry

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-token-server/sessions"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	accessNamespace  = "access"
	refreshNamespace = "refresh"
	scanBatch        = 500
)

var _ token.Registry = (*Registry)(nil)

type Registry struct {
	rdb    redis.UniversalClient
	prefix string
}

// New wraps an existing client. Keys are written as <prefix>:<namespace>:<token>.
func New(rdb redis.UniversalClient, prefix string) *Registry {
	return &Registry{rdb: rdb, prefix: prefix}
}

func (r *Registry) key(namespace, tok string) string {
	return r.prefix + ":" + namespace + ":" + tok
}

func (r *Registry) put(ctx context.Context, namespace, tok string, identity sessions.Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return errors.Wrap(err, "redisregistry marshal identity")
	}
	if err := r.rdb.Set(ctx, r.key(namespace, tok), payload, 0).Err(); err != nil {
		return errors.Wrapf(err, "redisregistry SET %s", namespace)
	}
	return nil
}

func (r *Registry) get(ctx context.Context, namespace, tok string) (sessions.Identity, bool, error) {
	payload, err := r.rdb.Get(ctx, r.key(namespace, tok)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sessions.Identity{}, false, nil
	}
	if err != nil {
		return sessions.Identity{}, false, errors.Wrapf(err, "redisregistry GET %s", namespace)
	}

	var identity sessions.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return sessions.Identity{}, false, errors.Wrapf(err, "redisregistry corrupt %s entry", namespace)
	}
	return identity, true, nil
}

func (r *Registry) count(ctx context.Context, namespace string) (int, error) {
	n := 0
	iter := r.rdb.Scan(ctx, 0, r.key(namespace, "*"), scanBatch).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, errors.Wrapf(err, "redisregistry SCAN %s", namespace)
	}
	return n, nil
}

func (r *Registry) PutAccess(ctx context.Context, tok string, identity sessions.Identity) error {
	return r.put(ctx, accessNamespace, tok, identity)
}

func (r *Registry) PutRefresh(ctx context.Context, tok string, identity sessions.Identity) error {
	return r.put(ctx, refreshNamespace, tok, identity)
}

func (r *Registry) GetAccess(ctx context.Context, tok string) (sessions.Identity, bool, error) {
	return r.get(ctx, accessNamespace, tok)
}

func (r *Registry) GetRefresh(ctx context.Context, tok string) (sessions.Identity, bool, error) {
	return r.get(ctx, refreshNamespace, tok)
}

// DeleteAccess relies on DEL returning the number of removed keys, so two
// concurrent deletes of the same token report presence exactly once.
func (r *Registry) DeleteAccess(ctx context.Context, tok string) (bool, error) {
	removed, err := r.rdb.Del(ctx, r.key(accessNamespace, tok)).Result()
	if err != nil {
		return false, errors.Wrap(err, "redisregistry DEL access")
	}
	return removed > 0, nil
}

func (r *Registry) Len(ctx context.Context) (int, int, error) {
	access, err := r.count(ctx, accessNamespace)
	if err != nil {
		return 0, 0, err
	}
	refresh, err := r.count(ctx, refreshNamespace)
	if err != nil {
		return 0, 0, err
	}
	return access, refresh, nil
}

// Ping checks connectivity; used at startup before serving.
func (r *Registry) Ping(ctx context.Context) error {
	return errors.Wrap(r.rdb.Ping(ctx).Err(), "redisregistry PING")
}

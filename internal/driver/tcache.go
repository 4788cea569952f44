package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/token"
)

// bump when the token layout changes
const tokenCacheSchema uint16 = 1

// TokenCacheKey identifies one scan: the same bytes scanned with a different
// keyword table produce different tokens.
type TokenCacheKey [32]byte

func (k TokenCacheKey) String() string { return hex.EncodeToString(k[:]) }

// TokenCache keeps token streams of previously scanned files on disk, keyed
// by content hash. A nil *TokenCache is a valid, always-missing cache.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

type tokenPayload struct {
	Schema uint16
	Tokens []token.Token
}

// OpenTokenCache opens (creating if needed) the cache under dir. An empty
// dir means $XDG_CACHE_HOME/ember or ~/.cache/ember.
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "ember")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey mixes the file hash with the keyword table and the schema.
func CacheKey(fileHash [32]byte, kw token.Keywords) TokenCacheKey {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], tokenCacheSchema)
	h.Write(schema[:])
	h.Write(fileHash[:])
	for _, w := range kw.Words() {
		h.Write([]byte(w))
		h.Write([]byte{0})
	}
	var key TokenCacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (c *TokenCache) pathFor(key TokenCacheKey) string {
	hexKey := key.String()
	// два уровня, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put stores toks under key, replacing the entry atomically.
func (c *TokenCache) Put(key TokenCacheKey, toks []token.Token) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(tokenPayload{Schema: tokenCacheSchema, Tokens: toks}); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the tokens stored under key. A missing entry or one written with
// another schema is a miss, not an error.
func (c *TokenCache) Get(key TokenCacheKey) (toks []token.Token, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var payload tokenPayload
	if err = msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != tokenCacheSchema {
		return nil, false, nil
	}
	return payload.Tokens, true, nil
}

// DropAll removes every cached entry; the cache stays usable afterwards.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

package securestore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/weightkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/weightkeeper/internal/cryptox"
)

// EncryptedStore seals values into a metadata.Repository. The key name is used
// as additional authenticated data, so a blob copied under another key fails
// to open.
type EncryptedStore struct {
	repo metadata.Repository
	key  []byte
}

func NewEncryptedStore(repo metadata.Repository, key []byte) (*EncryptedStore, error) {
	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("store key must be %d bytes, got %d", cryptox.KeySize, len(key))
	}
	return &EncryptedStore{repo: repo, key: append([]byte(nil), key...)}, nil
}

func (s *EncryptedStore) GetString(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.repo.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}

	plain, err := cryptox.Open(s.key, sealed, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrDecrypt, key)
	}
	return string(plain), true, nil
}

func (s *EncryptedStore) PutString(ctx context.Context, key, value string) error {
	sealed, err := cryptox.Seal(s.key, []byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, sealed)
}

func (s *EncryptedStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := s.GetString(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("secure value %s is not a bool: %w", key, err)
	}
	return b, nil
}

func (s *EncryptedStore) PutBool(ctx context.Context, key string, value bool) error {
	return s.PutString(ctx, key, strconv.FormatBool(value))
}

func (s *EncryptedStore) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

package securestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/weightkeeper/internal/common"
	"github.com/dmitrijs2005/weightkeeper/internal/cryptox"
	"github.com/dmitrijs2005/weightkeeper/internal/filex"
)

const (
	deviceKeyFile = "device.key"
	secretLen     = 32
	saltLen       = 16
)

// LoadOrCreateDeviceKey returns the store key for dataDir. On first use a
// random device secret and salt are written to dataDir/device.key (0600);
// the AES key itself is derived with argon2id and never written to disk.
func LoadOrCreateDeviceKey(dataDir string) ([]byte, error) {
	path := filepath.Join(dataDir, deviceKeyFile)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		raw = common.GenerateRandByteArray(secretLen + saltLen)
		if err := filex.WriteSecretFile(path, raw); err != nil {
			return nil, fmt.Errorf("write device key: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("read device key: %w", err)
	}

	if len(raw) != secretLen+saltLen {
		return nil, fmt.Errorf("device key %s is corrupt: %d bytes", path, len(raw))
	}
	defer common.WipeByteArray(raw)

	return cryptox.DeriveStoreKey(raw[:secretLen], raw[secretLen:]), nil
}

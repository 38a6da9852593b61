package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/pkg/secretstore"
	"github.com/sage-wallet/sage/pkg/wallet"
)

const vaultFilePerm = 0600

type keyList struct {
	ActiveFingerprint *uint32    `json:"activeFingerprint"`
	Keys              []keyEntry `json:"keys"`
}

type keyEntry struct {
	Name        string `json:"name"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	SecretKey   string `json:"secretKey,omitempty"`
	PublicKey   string `json:"publicKey"`
	Fingerprint uint32 `json:"fingerprint"`
}

type keyRepositoryImpl struct {
	path        string
	secretStore secretstore.SecretStore

	lock sync.Mutex
}

// NewKeyRepositoryImpl returns a KeyRepository that keeps the vault in a
// single file encrypted with the key of the given secret store.
func NewKeyRepositoryImpl(
	path string, secretStore secretstore.SecretStore,
) domain.KeyRepository {
	return &keyRepositoryImpl{path: path, secretStore: secretStore}
}

func (r *keyRepositoryImpl) Read(ctx context.Context) (*domain.KeyList, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewKeyList(), nil
		}
		return nil, err
	}

	key, err := r.secretStore.GetOrCreateKey()
	if err != nil {
		return nil, err
	}

	var envelope wallet.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultUnreadable, err)
	}

	plaintext, err := wallet.Decrypt(wallet.DecryptOpts{
		Envelope: &envelope,
		Key:      key,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultUnreadable, err)
	}

	var list keyList
	if err := json.Unmarshal(plaintext, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultUnreadable, err)
	}

	return mapInfraKeyListToDomainKeyList(list), nil
}

func (r *keyRepositoryImpl) Write(
	ctx context.Context, keys *domain.KeyList,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	plaintext, err := json.Marshal(mapDomainKeyListToInfraKeyList(keys))
	if err != nil {
		return err
	}

	key, err := r.secretStore.GetOrCreateKey()
	if err != nil {
		return err
	}

	envelope, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText: plaintext,
		Key:       key,
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(r.path, data, vaultFilePerm); err != nil {
		return fmt.Errorf("writing vault file: %w", err)
	}
	return nil
}

func mapDomainKeyListToInfraKeyList(keys *domain.KeyList) keyList {
	list := keyList{
		ActiveFingerprint: keys.ActiveFingerprint,
		Keys:              make([]keyEntry, 0, len(keys.Keys)),
	}
	for _, k := range keys.Keys {
		list.Keys = append(list.Keys, keyEntry(k))
	}
	return list
}

func mapInfraKeyListToDomainKeyList(list keyList) *domain.KeyList {
	keys := &domain.KeyList{
		ActiveFingerprint: list.ActiveFingerprint,
		Keys:              make([]domain.KeyEntry, 0, len(list.Keys)),
	}
	for _, k := range list.Keys {
		keys.Keys = append(keys.Keys, domain.KeyEntry(k))
	}
	return keys
}

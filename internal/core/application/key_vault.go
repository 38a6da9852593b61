package application

import (
	"context"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// KeyVault is the in-memory view of the persisted key list. Every mutation is
// applied to a copy that is persisted before replacing the in-memory state,
// therefore a failed write leaves both untouched.
type KeyVault struct {
	repository domain.KeyRepository

	lock sync.RWMutex
	keys *domain.KeyList
}

// NewKeyVault loads the key list from the given repository. An active
// fingerprint not matching any key is dropped.
func NewKeyVault(
	ctx context.Context, repository domain.KeyRepository,
) (*KeyVault, error) {
	keys, err := repository.Read(ctx)
	if err != nil {
		return nil, err
	}
	if stale := keys.ActiveFingerprint; stale != nil && keys.DropStaleActive() {
		log.WithField("fingerprint", *stale).Warn(
			"active key not found in vault, logging out",
		)
	}
	return &KeyVault{repository: repository, keys: keys}, nil
}

// List returns a copy of the key list.
func (v *KeyVault) List() *domain.KeyList {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.keys.Clone()
}

func (v *KeyVault) Find(fingerprint uint32) (*domain.KeyEntry, bool) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.keys.Find(fingerprint)
}

func (v *KeyVault) Active() (*domain.KeyEntry, bool) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.keys.Active()
}

func (v *KeyVault) IsActive(fingerprint uint32) bool {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.keys.IsActive(fingerprint)
}

// Add appends a new key, optionally selecting it. It fails with
// domain.ErrDuplicateFingerprint if the fingerprint is already stored.
func (v *KeyVault) Add(
	ctx context.Context, entry domain.KeyEntry, makeActive bool,
) error {
	return v.update(ctx, func(keys *domain.KeyList) (bool, error) {
		if err := keys.Add(entry, makeActive); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Delete removes the key with the given fingerprint and returns whether it
// was the active one.
func (v *KeyVault) Delete(
	ctx context.Context, fingerprint uint32,
) (wasActive bool, err error) {
	err = v.update(ctx, func(keys *domain.KeyList) (bool, error) {
		var removed bool
		removed, wasActive = keys.Delete(fingerprint)
		return removed, nil
	})
	return
}

// Rename is a no-op if the fingerprint is not stored.
func (v *KeyVault) Rename(
	ctx context.Context, fingerprint uint32, name string,
) error {
	return v.update(ctx, func(keys *domain.KeyList) (bool, error) {
		return keys.Rename(fingerprint, name)
	})
}

// SetActive selects the given key, or clears the selection if fingerprint is
// nil.
func (v *KeyVault) SetActive(ctx context.Context, fingerprint *uint32) error {
	return v.update(ctx, func(keys *domain.KeyList) (bool, error) {
		if sameFingerprint(keys.ActiveFingerprint, fingerprint) {
			return false, nil
		}
		if err := keys.SetActive(fingerprint); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (v *KeyVault) update(
	ctx context.Context, updateFn func(keys *domain.KeyList) (bool, error),
) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	keys := v.keys.Clone()
	changed, err := updateFn(keys)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := v.repository.Write(ctx, keys); err != nil {
		return err
	}
	v.keys = keys
	return nil
}

func sameFingerprint(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

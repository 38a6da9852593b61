package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

// KeyInfo is the public view of a key entry, secrets excluded.
type KeyInfo struct {
	Name        string
	Fingerprint uint32
	PublicKey   string
	WatchOnly   bool
	Active      bool
}

// Status reports the session state together with the active network.
type Status struct {
	SessionStatus
	ActiveNetwork string
}

type WalletService interface {
	GenerateMnemonic(long bool) ([]string, error)
	VerifyMnemonic(mnemonic string) bool

	ListKeys() []KeyInfo
	ImportMnemonic(ctx context.Context, name, mnemonic string) (uint32, error)
	ImportSecretKey(ctx context.Context, name, secretKey string) (uint32, error)
	ImportPublicKey(ctx context.Context, name, publicKey string) (uint32, error)
	DeleteKey(ctx context.Context, fingerprint uint32) error
	RenameKey(ctx context.Context, fingerprint uint32, name string) error

	LogIn(ctx context.Context, fingerprint *uint32) error
	LogOut(ctx context.Context) error
	Restore(ctx context.Context) error
	Status() Status

	Networks() *domain.NetworkConfig
	SwitchNetwork(ctx context.Context, name string) error

	ListAddresses(ctx context.Context) ([]string, error)
	AddressIndex(ctx context.Context, address string) (uint32, bool, error)
	DeriveAddresses(ctx context.Context, target uint32) error

	Close()
}

type walletService struct {
	vault    *KeyVault
	networks *NetworkService
	session  *Session

	// serializes the transitions that rebind the session so that it always
	// follows the latest active key and network.
	transitionLock sync.Mutex
}

func NewWalletService(
	vault *KeyVault, networks *NetworkService, session *Session,
) WalletService {
	return &walletService{
		vault:    vault,
		networks: networks,
		session:  session,
	}
}

func (w *walletService) GenerateMnemonic(long bool) ([]string, error) {
	entropySize := wallet.ShortEntropySize
	if long {
		entropySize = wallet.LongEntropySize
	}
	return wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: entropySize})
}

func (w *walletService) VerifyMnemonic(mnemonic string) bool {
	return wallet.IsMnemonicValid(mnemonic)
}

func (w *walletService) ListKeys() []KeyInfo {
	keys := w.vault.List()

	info := make([]KeyInfo, 0, len(keys.Keys))
	for _, k := range keys.Keys {
		info = append(info, KeyInfo{
			Name:        k.Name,
			Fingerprint: k.Fingerprint,
			PublicKey:   k.PublicKey,
			WatchOnly:   k.IsWatchOnly(),
			Active:      keys.IsActive(k.Fingerprint),
		})
	}
	return info
}

func (w *walletService) ImportMnemonic(
	ctx context.Context, name, mnemonic string,
) (uint32, error) {
	rootKey, err := wallet.RootKeyFromMnemonic(mnemonic)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidMnemonic, err)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	return w.importKey(ctx, name, mnemonic, rootKey)
}

func (w *walletService) ImportSecretKey(
	ctx context.Context, name, secretKey string,
) (uint32, error) {
	rootKey, err := wallet.RootKeyFromSecretKey(secretKey)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidSecretKey, err)
	}
	return w.importKey(ctx, name, "", rootKey)
}

func (w *walletService) ImportPublicKey(
	ctx context.Context, name, publicKey string,
) (uint32, error) {
	rootKey, err := wallet.RootKeyFromPublicKey(publicKey)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidPublicKey, err)
	}
	return w.importKey(ctx, name, "", rootKey)
}

func (w *walletService) DeleteKey(
	ctx context.Context, fingerprint uint32,
) error {
	w.transitionLock.Lock()
	defer w.transitionLock.Unlock()

	if w.vault.IsActive(fingerprint) {
		w.session.Close()
	}

	if _, err := w.vault.Delete(ctx, fingerprint); err != nil {
		return err
	}
	if err := w.session.RemoveStores(ctx, fingerprint); err != nil {
		return err
	}

	log.WithField("fingerprint", fingerprint).Info("deleted key")
	return nil
}

func (w *walletService) RenameKey(
	ctx context.Context, fingerprint uint32, name string,
) error {
	return w.vault.Rename(ctx, fingerprint, name)
}

// LogIn selects the given key, or none if fingerprint is nil, and binds the
// session to it on the active network.
func (w *walletService) LogIn(ctx context.Context, fingerprint *uint32) error {
	w.transitionLock.Lock()
	defer w.transitionLock.Unlock()

	if err := w.vault.SetActive(ctx, fingerprint); err != nil {
		return err
	}
	return w.enterSession(ctx)
}

func (w *walletService) LogOut(ctx context.Context) error {
	return w.LogIn(ctx, nil)
}

// Restore binds the session to the key that was active when the vault was
// last persisted.
func (w *walletService) Restore(ctx context.Context) error {
	w.transitionLock.Lock()
	defer w.transitionLock.Unlock()

	return w.enterSession(ctx)
}

func (w *walletService) Status() Status {
	return Status{
		SessionStatus: w.session.Status(),
		ActiveNetwork: w.networks.ActiveNetwork(),
	}
}

func (w *walletService) Networks() *domain.NetworkConfig {
	return w.networks.Config()
}

// SwitchNetwork persists the given network as the active one and rebinds the
// session to it. It fails with domain.ErrUnknownNetwork leaving everything
// unchanged if the network is not registered.
func (w *walletService) SwitchNetwork(ctx context.Context, name string) error {
	w.transitionLock.Lock()
	defer w.transitionLock.Unlock()

	if err := w.networks.SetActive(ctx, name); err != nil {
		return err
	}
	return w.enterSession(ctx)
}

func (w *walletService) ListAddresses(ctx context.Context) ([]string, error) {
	var addresses []string
	err := w.session.WithStore(func(
		status SessionStatus, store domain.DerivationRepository,
	) error {
		prefix, err := w.addressPrefix(status.Network)
		if err != nil {
			return err
		}

		puzzleHashes, err := store.PuzzleHashes(ctx)
		if err != nil {
			return err
		}

		addresses = make([]string, 0, len(puzzleHashes))
		for _, puzzleHash := range puzzleHashes {
			addr, err := wallet.EncodeAddress(puzzleHash, prefix)
			if err != nil {
				return err
			}
			addresses = append(addresses, addr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (w *walletService) AddressIndex(
	ctx context.Context, address string,
) (index uint32, found bool, err error) {
	err = w.session.WithStore(func(
		status SessionStatus, store domain.DerivationRepository,
	) error {
		prefix, err := w.addressPrefix(status.Network)
		if err != nil {
			return err
		}

		puzzleHash, err := wallet.DecodeAddress(address, prefix)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrInvalidAddress, err)
		}

		index, found, err = store.IndexOfPuzzleHash(ctx, puzzleHash)
		return err
	})
	return
}

func (w *walletService) DeriveAddresses(
	ctx context.Context, target uint32,
) error {
	return w.session.WithStore(func(
		status SessionStatus, store domain.DerivationRepository,
	) error {
		if err := store.DeriveToIndex(ctx, target); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"fingerprint": status.Fingerprint,
			"count":       target,
		}).Debug("derived addresses")
		return nil
	})
}

func (w *walletService) Close() {
	w.session.Close()
}

// importKey adds the key to the vault as the active one and logs in with it.
func (w *walletService) importKey(
	ctx context.Context, name, mnemonic string, rootKey *wallet.RootKey,
) (uint32, error) {
	w.transitionLock.Lock()
	defer w.transitionLock.Unlock()

	entry := domain.KeyEntry{
		Name:        strings.TrimSpace(name),
		Mnemonic:    mnemonic,
		SecretKey:   rootKey.SecretKey,
		PublicKey:   rootKey.PublicKey,
		Fingerprint: rootKey.Fingerprint,
	}
	if err := w.vault.Add(ctx, entry, true); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"fingerprint": entry.Fingerprint,
		"watch_only":  entry.IsWatchOnly(),
	}).Info("imported key")

	if err := w.enterSession(ctx); err != nil {
		return entry.Fingerprint, err
	}
	return entry.Fingerprint, nil
}

// enterSession binds the session to the vault's active key on the active
// network, or logs it out if no key is active. Must be called with the
// transition lock held.
func (w *walletService) enterSession(ctx context.Context) error {
	entry, ok := w.vault.Active()
	if !ok {
		w.session.Close()
		return nil
	}
	return w.session.Open(
		ctx, entry.Fingerprint, w.networks.ActiveNetwork(), entry.PublicKey,
	)
}

func (w *walletService) addressPrefix(network string) (string, error) {
	n, ok := w.networks.Network(network)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, network)
	}
	return n.AddressPrefix, nil
}

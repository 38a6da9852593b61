package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sage-wallet/sage/internal/core/application"
	"github.com/sage-wallet/sage/internal/core/domain"
	"github.com/sage-wallet/sage/pkg/wallet"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	testLookahead = 10

	testMnemonic = "abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon about"
	// BIP32 test vector 1.
	testXprv        = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	testXpub        = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
	testFingerprint = uint32(0x3442193e)
)

type testWallet struct {
	application.WalletService
	keys     *inMemoryKeyRepository
	networks *inMemoryNetworkRepository
	stores   *fakeStoreManager
}

func newTestWallet(t *testing.T, keys *domain.KeyList) *testWallet {
	ctx := context.Background()

	keyRepository := newInMemoryKeyRepository(keys)
	networkRepository := &inMemoryNetworkRepository{}
	stores := newFakeStoreManager()

	vault, err := application.NewKeyVault(ctx, keyRepository)
	require.NoError(t, err)
	networks, err := application.NewNetworkService(ctx, networkRepository)
	require.NoError(t, err)
	session, err := application.NewSession(fakeDeriver{}, stores, testLookahead)
	require.NoError(t, err)

	svc := application.NewWalletService(vault, networks, session)
	t.Cleanup(svc.Close)

	return &testWallet{svc, keyRepository, networkRepository, stores}
}

func TestImportKey(t *testing.T) {
	t.Run("first import on fresh install", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		require.Empty(t, w.ListKeys())
		_, writes := w.keys.stored()
		require.Zero(t, writes)

		fingerprint, err := w.ImportMnemonic(ctx, "Main", testMnemonic)
		require.NoError(t, err)

		keys := w.ListKeys()
		require.Len(t, keys, 1)
		require.Equal(t, "Main", keys[0].Name)
		require.Equal(t, fingerprint, keys[0].Fingerprint)
		require.True(t, keys[0].Active)
		require.False(t, keys[0].WatchOnly)

		stored, writes := w.keys.stored()
		require.Equal(t, 1, writes)
		require.Equal(t, fingerprint, *stored.ActiveFingerprint)
		require.Equal(t, testMnemonic, stored.Keys[0].Mnemonic)

		status := w.Status()
		require.True(t, status.LoggedIn)
		require.Equal(t, fingerprint, status.Fingerprint)
		require.Equal(t, domain.MainnetNetwork, status.Network)

		store, ok := w.stores.store(fingerprint, domain.MainnetNetwork)
		require.True(t, ok)
		count, err := store.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, uint32(testLookahead), count)
	})

	t.Run("duplicate fingerprint", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
		require.NoError(t, err)
		require.Equal(t, testFingerprint, fingerprint)

		before, writes := w.keys.stored()

		_, err = w.ImportSecretKey(ctx, "Again", testXprv)
		require.ErrorIs(t, err, domain.ErrDuplicateFingerprint)
		_, err = w.ImportPublicKey(ctx, "Watch", testXpub)
		require.ErrorIs(t, err, domain.ErrDuplicateFingerprint)

		require.Len(t, w.ListKeys(), 1)
		after, afterWrites := w.keys.stored()
		require.Equal(t, before, after)
		require.Equal(t, writes, afterWrites)
	})

	t.Run("watch only", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportPublicKey(ctx, "Watch", testXpub)
		require.NoError(t, err)
		require.Equal(t, testFingerprint, fingerprint)

		keys := w.ListKeys()
		require.Len(t, keys, 1)
		require.True(t, keys[0].WatchOnly)
		require.Equal(t, testXpub, keys[0].PublicKey)
		require.True(t, w.Status().LoggedIn)
	})

	t.Run("new key becomes active", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		first, err := w.ImportMnemonic(ctx, "Main", testMnemonic)
		require.NoError(t, err)
		second, err := w.ImportSecretKey(ctx, "Other", testXprv)
		require.NoError(t, err)

		keys := w.ListKeys()
		require.Len(t, keys, 2)
		require.Equal(t, first, keys[0].Fingerprint)
		require.False(t, keys[0].Active)
		require.Equal(t, second, keys[1].Fingerprint)
		require.True(t, keys[1].Active)
		require.Equal(t, second, w.Status().Fingerprint)
	})
}

func TestFailingImportKey(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		importFn      func(w *testWallet) error
		expectedError error
	}{
		{
			name: "invalid mnemonic",
			importFn: func(w *testWallet) error {
				_, err := w.ImportMnemonic(
					ctx, "Main", strings.Replace(testMnemonic, "about", "abandon", 1),
				)
				return err
			},
			expectedError: domain.ErrInvalidMnemonic,
		},
		{
			name: "empty mnemonic",
			importFn: func(w *testWallet) error {
				_, err := w.ImportMnemonic(ctx, "Main", "  ")
				return err
			},
			expectedError: domain.ErrInvalidMnemonic,
		},
		{
			name: "public key as secret key",
			importFn: func(w *testWallet) error {
				_, err := w.ImportSecretKey(ctx, "Main", testXpub)
				return err
			},
			expectedError: domain.ErrInvalidSecretKey,
		},
		{
			name: "malformed secret key",
			importFn: func(w *testWallet) error {
				_, err := w.ImportSecretKey(ctx, "Main", "xprvnotakey")
				return err
			},
			expectedError: domain.ErrInvalidSecretKey,
		},
		{
			name: "secret key as public key",
			importFn: func(w *testWallet) error {
				_, err := w.ImportPublicKey(ctx, "Main", testXprv)
				return err
			},
			expectedError: domain.ErrInvalidPublicKey,
		},
		{
			name: "empty name",
			importFn: func(w *testWallet) error {
				_, err := w.ImportPublicKey(ctx, " ", testXpub)
				return err
			},
			expectedError: domain.ErrEmptyKeyName,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWallet(t, nil)

			err := tt.importFn(w)
			require.ErrorIs(t, err, tt.expectedError)

			require.Empty(t, w.ListKeys())
			_, writes := w.keys.stored()
			require.Zero(t, writes)
			require.False(t, w.Status().LoggedIn)
		})
	}
}

func TestDeleteKey(t *testing.T) {
	t.Run("active key", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
		require.NoError(t, err)
		require.NoError(t, w.SwitchNetwork(ctx, domain.SimulatorNetwork))
		require.True(t, w.stores.hasStores(fingerprint))

		err = w.DeleteKey(ctx, fingerprint)
		require.NoError(t, err)

		require.Empty(t, w.ListKeys())
		stored, _ := w.keys.stored()
		require.Empty(t, stored.Keys)
		require.Nil(t, stored.ActiveFingerprint)
		require.False(t, w.Status().LoggedIn)
		require.False(t, w.stores.hasStores(fingerprint))
	})

	t.Run("inactive key", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		first, err := w.ImportMnemonic(ctx, "Main", testMnemonic)
		require.NoError(t, err)
		second, err := w.ImportSecretKey(ctx, "Other", testXprv)
		require.NoError(t, err)

		err = w.DeleteKey(ctx, first)
		require.NoError(t, err)

		keys := w.ListKeys()
		require.Len(t, keys, 1)
		require.Equal(t, second, keys[0].Fingerprint)
		require.True(t, keys[0].Active)

		status := w.Status()
		require.True(t, status.LoggedIn)
		require.Equal(t, second, status.Fingerprint)
		require.False(t, w.stores.hasStores(first))
		require.True(t, w.stores.hasStores(second))
	})

	t.Run("unknown key", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
		require.NoError(t, err)
		_, writes := w.keys.stored()

		err = w.DeleteKey(ctx, 4242)
		require.NoError(t, err)

		require.Len(t, w.ListKeys(), 1)
		_, afterWrites := w.keys.stored()
		require.Equal(t, writes, afterWrites)
		require.Equal(t, fingerprint, w.Status().Fingerprint)
	})
}

func TestRenameKey(t *testing.T) {
	ctx := context.Background()
	w := newTestWallet(t, nil)

	fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
	require.NoError(t, err)

	require.NoError(t, w.RenameKey(ctx, fingerprint, "Savings"))
	require.Equal(t, "Savings", w.ListKeys()[0].Name)
	stored, writes := w.keys.stored()
	require.Equal(t, "Savings", stored.Keys[0].Name)

	require.NoError(t, w.RenameKey(ctx, 4242, "Ghost"))
	_, afterWrites := w.keys.stored()
	require.Equal(t, writes, afterWrites)

	err = w.RenameKey(ctx, fingerprint, "")
	require.ErrorIs(t, err, domain.ErrEmptyKeyName)
	require.Equal(t, "Savings", w.ListKeys()[0].Name)
}

func TestLogIn(t *testing.T) {
	ctx := context.Background()
	w := newTestWallet(t, nil)

	fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
	require.NoError(t, err)

	require.NoError(t, w.LogOut(ctx))
	require.False(t, w.Status().LoggedIn)
	require.False(t, w.ListKeys()[0].Active)
	stored, _ := w.keys.stored()
	require.Nil(t, stored.ActiveFingerprint)

	_, err = w.ListAddresses(ctx)
	require.ErrorIs(t, err, application.ErrNotLoggedIn)

	unknown := uint32(4242)
	err = w.LogIn(ctx, &unknown)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
	require.False(t, w.Status().LoggedIn)

	require.NoError(t, w.LogIn(ctx, &fingerprint))
	status := w.Status()
	require.True(t, status.LoggedIn)
	require.Equal(t, fingerprint, status.Fingerprint)

	opens := w.stores.openCount()
	require.NoError(t, w.LogIn(ctx, &fingerprint))
	require.Equal(t, opens, w.stores.openCount())
}

func TestFailingLogIn(t *testing.T) {
	ctx := context.Background()
	w := newTestWallet(t, nil)

	w.stores.setOpenErr(errors.New("disk I/O error"))

	fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
	require.Error(t, err)
	require.Equal(t, testFingerprint, fingerprint)

	require.False(t, w.Status().LoggedIn)
	keys := w.ListKeys()
	require.Len(t, keys, 1)
	require.True(t, keys[0].Active)

	w.stores.setOpenErr(nil)
	require.NoError(t, w.Restore(ctx))
	require.True(t, w.Status().LoggedIn)
}

func TestSwitchNetwork(t *testing.T) {
	t.Run("known network", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
		require.NoError(t, err)
		mainnetStore, ok := w.stores.store(fingerprint, domain.MainnetNetwork)
		require.True(t, ok)

		require.NoError(t, w.SwitchNetwork(ctx, domain.SimulatorNetwork))

		status := w.Status()
		require.True(t, status.LoggedIn)
		require.Equal(t, domain.SimulatorNetwork, status.Network)
		require.Equal(t, domain.SimulatorNetwork, status.ActiveNetwork)
		require.Equal(t, domain.SimulatorNetwork, w.Networks().ActiveNetwork)
		require.True(t, mainnetStore.isClosed())

		simulatorStore, ok := w.stores.store(fingerprint, domain.SimulatorNetwork)
		require.True(t, ok)
		require.False(t, simulatorStore.isClosed())

		stored, err := w.networks.GetOrCreate(ctx)
		require.NoError(t, err)
		require.Equal(t, domain.SimulatorNetwork, stored.ActiveNetwork)
	})

	t.Run("unknown network", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		fingerprint, err := w.ImportSecretKey(ctx, "Main", testXprv)
		require.NoError(t, err)
		opens := w.stores.openCount()

		err = w.SwitchNetwork(ctx, "unknown")
		require.ErrorIs(t, err, domain.ErrUnknownNetwork)

		status := w.Status()
		require.True(t, status.LoggedIn)
		require.Equal(t, fingerprint, status.Fingerprint)
		require.Equal(t, domain.MainnetNetwork, status.Network)
		require.Equal(t, domain.MainnetNetwork, status.ActiveNetwork)
		require.Equal(t, opens, w.stores.openCount())

		store, ok := w.stores.store(fingerprint, domain.MainnetNetwork)
		require.True(t, ok)
		require.False(t, store.isClosed())
	})

	t.Run("logged out", func(t *testing.T) {
		ctx := context.Background()
		w := newTestWallet(t, nil)

		require.NoError(t, w.SwitchNetwork(ctx, domain.SimulatorNetwork))
		status := w.Status()
		require.False(t, status.LoggedIn)
		require.Equal(t, domain.SimulatorNetwork, status.ActiveNetwork)
	})
}

func TestAddresses(t *testing.T) {
	ctx := context.Background()
	w := newTestWallet(t, nil)

	_, err := w.ImportSecretKey(ctx, "Main", testXprv)
	require.NoError(t, err)

	addresses, err := w.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, addresses, testLookahead)
	for _, addr := range addresses {
		require.True(t, strings.HasPrefix(addr, "xch1"))
	}

	index, found, err := w.AddressIndex(ctx, addresses[3])
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint32(3), index)

	var unknown [domain.PuzzleHashLength]byte
	unknownAddr, err := wallet.EncodeAddress(unknown, "xch")
	require.NoError(t, err)
	_, found, err = w.AddressIndex(ctx, unknownAddr)
	require.NoError(t, err)
	require.False(t, found)

	otherPrefix, err := wallet.EncodeAddress(unknown, "txch")
	require.NoError(t, err)
	_, _, err = w.AddressIndex(ctx, otherPrefix)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, _, err = w.AddressIndex(ctx, "not an address")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	require.NoError(t, w.DeriveAddresses(ctx, 25))
	extended, err := w.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, extended, 25)
	require.Equal(t, addresses, extended[:testLookahead])

	require.NoError(t, w.DeriveAddresses(ctx, 5))
	extended, err = w.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, extended, 25)
}

func TestRestore(t *testing.T) {
	t.Run("active key", func(t *testing.T) {
		ctx := context.Background()
		fingerprint := uint32(1111)
		keys := &domain.KeyList{
			ActiveFingerprint: &fingerprint,
			Keys: []domain.KeyEntry{
				{Name: "Main", PublicKey: testXpub, Fingerprint: fingerprint},
			},
		}
		w := newTestWallet(t, keys)
		require.False(t, w.Status().LoggedIn)

		require.NoError(t, w.Restore(ctx))
		status := w.Status()
		require.True(t, status.LoggedIn)
		require.Equal(t, fingerprint, status.Fingerprint)
	})

	t.Run("stale active key", func(t *testing.T) {
		ctx := context.Background()
		stale := uint32(4242)
		keys := &domain.KeyList{
			ActiveFingerprint: &stale,
			Keys: []domain.KeyEntry{
				{Name: "Main", PublicKey: testXpub, Fingerprint: 1111},
			},
		}
		w := newTestWallet(t, keys)

		require.NoError(t, w.Restore(ctx))
		require.False(t, w.Status().LoggedIn)

		infos := w.ListKeys()
		require.Len(t, infos, 1)
		require.False(t, infos[0].Active)
	})
}

func TestConcurrentImport(t *testing.T) {
	ctx := context.Background()
	w := newTestWallet(t, nil)

	mnemonics := make([]string, 8)
	for i := range mnemonics {
		words, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{})
		require.NoError(t, err)
		mnemonics[i] = strings.Join(words, " ")
	}

	eg := &errgroup.Group{}
	for i, mnemonic := range mnemonics {
		name, mnemonic := fmt.Sprintf("Key %d", i), mnemonic
		eg.Go(func() error {
			_, err := w.ImportMnemonic(ctx, name, mnemonic)
			return err
		})
		eg.Go(func() error {
			w.ListKeys()
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	keys := w.ListKeys()
	require.Len(t, keys, len(mnemonics))

	stored, writes := w.keys.stored()
	require.Len(t, stored.Keys, len(mnemonics))
	require.Equal(t, len(mnemonics), writes)

	status := w.Status()
	require.True(t, status.LoggedIn)
	require.Equal(t, *stored.ActiveFingerprint, status.Fingerprint)
}

func TestGenerateMnemonic(t *testing.T) {
	w := newTestWallet(t, nil)

	tests := []struct {
		long          bool
		expectedWords int
	}{
		{false, 12},
		{true, 24},
	}
	for _, tt := range tests {
		words, err := w.GenerateMnemonic(tt.long)
		require.NoError(t, err)
		require.Len(t, words, tt.expectedWords)
		require.True(t, w.VerifyMnemonic(strings.Join(words, " ")))
	}

	require.True(t, w.VerifyMnemonic(testMnemonic))
	require.False(t, w.VerifyMnemonic("abandon abandon abandon"))
}

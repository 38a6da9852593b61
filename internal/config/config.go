package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sage-wallet/sage/pkg/wallet"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the vault, the network
	// config and the derivation databases
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DerivationLookaheadKey is the number of addresses eagerly derived when
	// logging in with a key
	DerivationLookaheadKey = "DERIVATION_LOOKAHEAD"
	// KeyringServiceKey is the service name of the OS credential store entry
	// holding the vault encryption key
	KeyringServiceKey = "KEYRING_SERVICE"
	// KeyringUserKey is the user name of the OS credential store entry holding
	// the vault encryption key
	KeyringUserKey = "KEYRING_USER"
	// IntermediateDerivationPathKey is the unhardened path from a root public
	// key to the parent of all the derived addresses
	IntermediateDerivationPathKey = "INTERMEDIATE_DERIVATION_PATH"

	DbLocation            = "db"
	VaultLocation         = "keys.bin"
	NetworkConfigLocation = "networks.yaml"

	defaultLookahead      = 100
	defaultKeyringService = "Sage Wallet"
	defaultKeyringUser    = "Encryption Key"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("sage", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SAGE")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DerivationLookaheadKey, defaultLookahead)
	vip.SetDefault(KeyringServiceKey, defaultKeyringService)
	vip.SetDefault(KeyringUserKey, defaultKeyringUser)
	vip.SetDefault(
		IntermediateDerivationPathKey,
		wallet.DefaultIntermediateDerivationPath.String(),
	)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetVaultPath() string {
	return filepath.Join(GetDatadir(), VaultLocation)
}

func GetNetworkConfigPath() string {
	return filepath.Join(GetDatadir(), NetworkConfigLocation)
}

func GetLookahead() uint32 {
	return uint32(vip.GetInt64(DerivationLookaheadKey))
}

func GetIntermediateDerivationPath() wallet.DerivationPath {
	path, _ := wallet.ParseDerivationPath(
		GetString(IntermediateDerivationPathKey),
	)
	return path
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	lookahead := vip.GetInt64(DerivationLookaheadKey)
	if lookahead <= 0 || lookahead > math.MaxUint32 {
		return fmt.Errorf(
			"%s must be in range [1, %d]", DerivationLookaheadKey, uint32(math.MaxUint32),
		)
	}

	path, err := wallet.ParseDerivationPath(GetString(IntermediateDerivationPathKey))
	if err != nil {
		return fmt.Errorf("invalid %s: %s", IntermediateDerivationPathKey, err)
	}
	if !path.IsUnhardened() {
		return fmt.Errorf("%s must be unhardened", IntermediateDerivationPathKey)
	}

	if len(GetString(KeyringServiceKey)) <= 0 {
		return fmt.Errorf("missing keyring service name")
	}
	if len(GetString(KeyringUserKey)) <= 0 {
		return fmt.Errorf("missing keyring user name")
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0700)
	}
	return nil
}

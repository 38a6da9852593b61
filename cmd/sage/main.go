package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sage-wallet/sage/internal/config"
	"github.com/sage-wallet/sage/internal/core/application"
	dbbadger "github.com/sage-wallet/sage/internal/infrastructure/storage/db/badger"
	filestore "github.com/sage-wallet/sage/internal/infrastructure/storage/file"
	keyringsecretstore "github.com/sage-wallet/sage/pkg/secretstore/keyring"
	"github.com/sage-wallet/sage/pkg/wallet"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "sage"
	app.Usage = "Command line interface for the sage wallet key vault"
	app.Before = func(*cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&genseed,
		&keys,
		&login,
		&logout,
		&network,
		&addresses,
		&status,
	)
	return app
}

// getWalletService builds the wallet services on top of the datadir and
// restores the session of the active key, if any.
func getWalletService(
	ctx *cli.Context,
) (application.WalletService, func(), error) {
	secretStore, err := keyringsecretstore.NewSecretStore(
		config.GetString(config.KeyringServiceKey),
		config.GetString(config.KeyringUserKey),
	)
	if err != nil {
		return nil, nil, err
	}

	vault, err := application.NewKeyVault(
		ctx.Context,
		filestore.NewKeyRepositoryImpl(config.GetVaultPath(), secretStore),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to unlock vault: %w", err)
	}

	networks, err := application.NewNetworkService(
		ctx.Context,
		filestore.NewNetworkRepositoryImpl(config.GetNetworkConfigPath()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load networks: %w", err)
	}

	deriver, err := wallet.NewDeriver(config.GetIntermediateDerivationPath())
	if err != nil {
		return nil, nil, err
	}
	storeManager := dbbadger.NewStoreManager(
		config.GetDbDir(), deriver, newBadgerLogger(),
	)
	session, err := application.NewSession(
		deriver, storeManager, config.GetLookahead(),
	)
	if err != nil {
		return nil, nil, err
	}

	svc := application.NewWalletService(vault, networks, session)
	if err := svc.Restore(ctx.Context); err != nil {
		svc.Close()
		return nil, nil, fmt.Errorf("unable to restore session: %w", err)
	}

	return svc, svc.Close, nil
}

// newBadgerLogger returns a logger sharing the output of the standard one
// that never goes below the warn level.
func newBadgerLogger() *log.Logger {
	std := log.StandardLogger()

	logger := log.New()
	logger.SetOutput(std.Out)
	logger.SetFormatter(std.Formatter)

	level := std.GetLevel()
	if level > log.WarnLevel {
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

func parseFingerprint(ctx *cli.Context, command string) (uint32, error) {
	if ctx.Args().Len() != 1 {
		return 0, &invalidUsageError{ctx, command}
	}
	fingerprint, err := strconv.ParseUint(ctx.Args().First(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint: %s", ctx.Args().First())
	}
	return uint32(fingerprint), nil
}

func printJSON(w io.Writer, resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Fprintln(w, "unable to decode response: ", err)
		return
	}
	fmt.Fprintln(w, string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[sage] %v\n", err)
	}
	os.Exit(1)
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sage-wallet/sage/internal/core/application"
)

var nameFlag = &cli.StringFlag{
	Name:     "name",
	Usage:    "the name of the key",
	Required: true,
}

var keys = cli.Command{
	Name:  "keys",
	Usage: "manage the keys stored in the vault",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "list all keys",
			Action: listKeysAction,
		},
		{
			Name:  "import-mnemonic",
			Usage: "import a key from a mnemonic",
			Flags: []cli.Flag{
				nameFlag,
				&cli.StringFlag{
					Name:     "mnemonic",
					Usage:    "space separated list of words",
					Required: true,
				},
			},
			Action: importMnemonicAction,
		},
		{
			Name:  "import-secret",
			Usage: "import a key from a serialized extended secret key",
			Flags: []cli.Flag{
				nameFlag,
				&cli.StringFlag{
					Name:     "secret-key",
					Usage:    "the extended secret key",
					Required: true,
				},
			},
			Action: importSecretKeyAction,
		},
		{
			Name:  "import-public",
			Usage: "import a watch-only key from a serialized extended public key",
			Flags: []cli.Flag{
				nameFlag,
				&cli.StringFlag{
					Name:     "public-key",
					Usage:    "the extended public key",
					Required: true,
				},
			},
			Action: importPublicKeyAction,
		},
		{
			Name:      "delete",
			Usage:     "delete a key and its derivation stores",
			ArgsUsage: "<fingerprint>",
			Action:    deleteKeyAction,
		},
		{
			Name:      "rename",
			Usage:     "rename a key",
			ArgsUsage: "<fingerprint>",
			Flags:     []cli.Flag{nameFlag},
			Action:    renameKeyAction,
		},
	},
}

type keyView struct {
	Name        string `json:"name"`
	Fingerprint uint32 `json:"fingerprint"`
	PublicKey   string `json:"public_key"`
	WatchOnly   bool   `json:"watch_only"`
	Active      bool   `json:"active"`
}

func listKeysAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	list := svc.ListKeys()
	keys := make([]keyView, 0, len(list))
	for _, k := range list {
		keys = append(keys, keyView(k))
	}
	printJSON(ctx.App.Writer, keys)
	return nil
}

func importMnemonicAction(ctx *cli.Context) error {
	return importKey(ctx, ctx.String("mnemonic"), application.WalletService.ImportMnemonic)
}

func importSecretKeyAction(ctx *cli.Context) error {
	return importKey(ctx, ctx.String("secret-key"), application.WalletService.ImportSecretKey)
}

func importPublicKeyAction(ctx *cli.Context) error {
	return importKey(ctx, ctx.String("public-key"), application.WalletService.ImportPublicKey)
}

func importKey(
	ctx *cli.Context, key string,
	importFn func(application.WalletService, context.Context, string, string) (uint32, error),
) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fingerprint, err := importFn(svc, ctx.Context, ctx.String("name"), key)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, fingerprint)
	return nil
}

func deleteKeyAction(ctx *cli.Context) error {
	fingerprint, err := parseFingerprint(ctx, "delete")
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.DeleteKey(ctx.Context, fingerprint); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "key %d deleted\n", fingerprint)
	return nil
}

func renameKeyAction(ctx *cli.Context) error {
	fingerprint, err := parseFingerprint(ctx, "rename")
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.RenameKey(ctx.Context, fingerprint, ctx.String("name"))
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var login = cli.Command{
	Name:      "login",
	Usage:     "make a key active and open its session",
	ArgsUsage: "<fingerprint>",
	Action:    loginAction,
}

var logout = cli.Command{
	Name:   "logout",
	Usage:  "close the session and clear the active key",
	Action: logoutAction,
}

var status = cli.Command{
	Name:   "status",
	Usage:  "show the session status",
	Action: statusAction,
}

func loginAction(ctx *cli.Context) error {
	fingerprint, err := parseFingerprint(ctx, "login")
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.LogIn(ctx.Context, &fingerprint); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "logged in with key %d\n", fingerprint)
	return nil
}

func logoutAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.LogOut(ctx.Context)
}

func statusAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	st := svc.Status()
	resp := map[string]interface{}{
		"logged_in":      st.LoggedIn,
		"active_network": st.ActiveNetwork,
	}
	if st.LoggedIn {
		resp["fingerprint"] = st.Fingerprint
		resp["network"] = st.Network
	}
	printJSON(ctx.App.Writer, resp)
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/wpplocal/internal/app"
	"github.com/matheus3301/wpplocal/internal/config"
	"github.com/matheus3301/wpplocal/internal/profile"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	ephemeral := flag.Bool("ephemeral", false, "keep records in memory only")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fail(err)
	}

	params := app.Params{ProfileName: profileName}
	if *ephemeral {
		cfg, err := config.LoadOrDefault(profile.ConfigPath())
		if err != nil {
			fail(err)
		}
		cfg.Store.Layout = config.LayoutSnapshot
		cfg.Store.Driver = config.DriverMemory
		params.Config = cfg
	}

	a := fx.New(app.Module(params))
	if err := a.Err(); err != nil {
		fail(err)
	}
	a.Run()
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

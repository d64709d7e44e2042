package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/matheus3301/wpplocal/internal/app"
	"github.com/matheus3301/wpplocal/internal/config"
	"github.com/matheus3301/wpplocal/internal/logging"
	"github.com/matheus3301/wpplocal/internal/profile"
	"github.com/matheus3301/wpplocal/internal/tui/model"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Usage = printUsage
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fail(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fail(err)
	}
	logger, err := logging.New(profile.LogPath(profileName), profileName, cfg.Log.Level, false)
	if err != nil {
		fail(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	be, err := app.OpenStore(ctx, cfg, profileName, nil, logger)
	if err != nil {
		fail(err)
	}

	vm := model.NewViewModel(be.Store, nil, nil, logger)
	vm.SetSeedDemo(false)
	c := &cli{
		backend: be,
		vm:      vm,
		out:     os.Stdout,
		json:    *jsonFlag,
	}
	runErr := c.run(ctx, args)
	if err := be.Close(); err != nil {
		logger.Warn("close store", zap.Error(err))
	}
	if runErr != nil {
		fail(runErr)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wppctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  seed                      Write demo data if no user exists")
	fmt.Fprintln(os.Stderr, "  user                      Show the user profile")
	fmt.Fprintln(os.Stderr, "  contacts                  List contacts")
	fmt.Fprintln(os.Stderr, "  chats                     List chats, most recent first")
	fmt.Fprintln(os.Stderr, "  messages <chat-id>        Show a chat's messages")
	fmt.Fprintln(os.Stderr, "  send <chat-id> <text>     Send a message as the user")
	fmt.Fprintln(os.Stderr, "  read <chat-id>            Mark a chat's messages read")
	fmt.Fprintln(os.Stderr, "  start <contact-id>        Start or reuse a chat with a contact")
	fmt.Fprintln(os.Stderr, "  add-contact <nickname>    Add a contact")
	fmt.Fprintln(os.Stderr, "  dump                      Print raw stored keys and values")
	fmt.Fprintln(os.Stderr, "  profiles                  List profiles on disk")
}

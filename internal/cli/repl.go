package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL dispatches to. The real
// App type satisfies it; tests can provide a lightweight stub.
type execIface interface {
	hasUser() bool
	Use(ctx context.Context, arg string) error
	CreateWallet(ctx context.Context) error
	ExportKey(ctx context.Context) error
	ExportMnemonic(ctx context.Context) error
	SetPassphrase(ctx context.Context) error
	VerifyPassphrase(ctx context.Context) error
	RemoveWallet(ctx context.Context) error
	Limits(ctx context.Context) error
}

// runREPL drives the read-eval-print loop of the keywarden console.
//
// Each line read from the scanner is split on whitespace; the first token
// selects the command and the rest are its arguments. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the selected user (from statusFn) and accepts commands:
//
//	Always:
//	  - help           show available commands
//	  - use <id>       select the user whose wallet to operate on
//	  - exit | quit    leave the program
//
//	With a user selected:
//	  - create         create the user's wallet
//	  - key            disclose the wallet's private key
//	  - phrase         disclose the wallet's mnemonic
//	  - setpass        set, rotate or remove the passphrase
//	  - verify         check a passphrase without disclosing anything
//	  - remove         delete the wallet and passphrase
//	  - limits         show the user's rate limit budgets
//
// Errors returned by command handlers are dropped here; every handler
// reports its own failures, so the loop itself only does I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kw %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.hasUser() {
				printlnFn("Available commands: create, key, phrase, setpass, verify, remove, limits, use <id>, exit")
			} else {
				printlnFn("Available commands: use <id>, exit")
			}

		case "use":
			if len(args) == 0 {
				printlnFn("Usage: use <user-id>")
				continue
			}
			_ = a.Use(ctx, args[0])

		case "create":
			_ = a.CreateWallet(ctx)

		case "key":
			_ = a.ExportKey(ctx)

		case "phrase":
			_ = a.ExportMnemonic(ctx)

		case "setpass":
			_ = a.SetPassphrase(ctx)

		case "verify":
			_ = a.VerifyPassphrase(ctx)

		case "remove":
			_ = a.RemoveWallet(ctx)

		case "limits":
			_ = a.Limits(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

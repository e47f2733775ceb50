// Package cli provides the interactive keywarden operator console.
//
// It wires configuration, storage, the disclosure limiter and the custody
// service into a REPL used for development and operations. Typical flow:
// select a user with "use <id>", create the wallet, then exercise exports,
// passphrase changes and limit inspection against the same code paths the
// bot layer calls.
//
// The console is started via App.Run(ctx), which blocks until the user
// exits. See App, StartCleanupWatcher, and runREPL for details.
package cli

package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.userID != 0 {
		s = fmt.Sprintf("(user %d)", a.userID)
	}
	return s
}

// Root runs the interactive console until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to keywarden console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartCleanupWatcher(ctx, a.config.CleanupInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}

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
	if a.userName != "" {
		s = a.userName + " "
	}
	if !a.remote.Configured() {
		s = s + "local-only"
	} else if a.monitor.Online() {
		s = s + "online"
	} else {
		s = s + "offline"
	}
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to mycolog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}

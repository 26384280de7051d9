package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Sync(ctx context.Context) error
	SyncStatus(ctx context.Context) error
	CloudOn(ctx context.Context) error
	CloudOff(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the mycolog CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	add            — record a new observation
//	list | l       — list observations
//	show           — show a single observation (interactive ID prompt)
//	edit           — edit an observation's fields
//	delete         — delete an observation locally
//	sync           — synchronize with the cloud now
//	status         — show sync status and configuration
//	cloud on|off   — enable or disable cloud sync
//	register       — create a cloud account
//	login          — authenticate against the cloud
//	logout         — drop the stored cloud credentials
//	exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mycolog %s> ", statusFn()))
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
			printlnFn("Available commands: add, (l)ist, show, edit, delete, sync, status, cloud on|off, register, login, logout, exit")

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.SyncStatus(ctx)

		case "cloud":
			if len(args) == 0 {
				printlnFn("Usage: cloud on|off")
				continue
			}
			switch args[0] {
			case "on":
				_ = a.CloudOn(ctx)
			case "off":
				_ = a.CloudOff(ctx)
			default:
				printlnFn("Usage: cloud on|off")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

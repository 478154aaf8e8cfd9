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
	Import(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the braindump CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                     — show available commands
//	  - register                 — create an account
//	  - login                    — authenticate
//	  - exit | quit              — leave the program
//
//	Logged in:
//	  - help                     — show available commands
//	  - import <file> [title]    — upload audio and follow the analysis live
//	  - list                     — list recordings
//	  - show <id>                — show a single recording
//	  - chat <id> <question>     — ask a question about a recording
//	  - delete <id>              — delete a recording
//	  - done <n>                 — toggle action item n of the last shown recording
//	  - logout                   — log out
//	  - exit | quit              — leave the program
//
// Any errors returned by command handlers are printed here but never stop
// the loop. This keeps the REPL resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("bd> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: import <file> [title], (l)ist, show <id>, chat <id> <question>, delete <id>, done <n>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "import":
			err = a.Import(ctx, args)

		case "l", "list":
			err = a.List(ctx)

		case "show":
			err = a.Show(ctx, args)

		case "chat":
			err = a.Chat(ctx, args)

		case "delete":
			err = a.Delete(ctx, args)

		case "done":
			err = a.Done(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err.Error())
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Confirm(ctx context.Context) error
	Resend(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Remove(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
}

// runREPL reads commands line by line from reader, which is shared with the
// command prompts, and dispatches them to a. It returns on EOF or on
// "exit"/"quit". Command errors are reported and the loop goes
// on.
//
//	Not logged in: signup, confirm, resend, login, forgot, reset, add, list, remove, clear, help, exit
//	Logged in:     whoami, refresh, passwd, logout, add, list, remove, clear, help, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nkitsi %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, passwd, logout, add, (l)ist, remove <id>, clear, exit")
			} else {
				printlnFn("Available commands: signup, confirm, resend, login, forgot, reset, add, (l)ist, remove <id>, clear, exit")
			}
		case "signup", "register":
			err = a.SignUp(ctx)
		case "confirm":
			err = a.Confirm(ctx)
		case "resend":
			err = a.Resend(ctx)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "passwd":
			err = a.ChangePassword(ctx)
		case "forgot":
			err = a.Forgot(ctx)
		case "reset":
			err = a.Reset(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "add":
			err = a.Add(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "remove", "rm":
			err = a.Remove(ctx, args)
		case "clear":
			err = a.Clear(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/guard"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// command is one REPL verb. Auth commands pass through the auth guard; perms
// lists the permissions of which the user needs any one.
type command struct {
	name  string
	usage string
	auth  bool
	guest bool
	perms []string
	run   func(ctx context.Context, args []string) error
}

type sessionView interface {
	guard.Session
	CurrentUser() *models.User
}

// execIface is the surface the REPL needs; App satisfies it and tests stub it.
type execIface interface {
	commands() []command
	guardSession() sessionView
	prompt() string
	Navigate(ctx context.Context, path string)
}

// runREPL reads commands line by line and dispatches them until EOF or
// "exit"/"quit". Errors from handlers are printed, never fatal.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	table := make(map[string]command)
	for _, c := range a.commands() {
		table[c.name] = c
	}

	for {
		printlnFn(a.prompt())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(a))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := table[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if !admit(ctx, a, cmd) {
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			printlnFn("Error:", client.ExtractMessage(err))
		}
	}
}

func admit(ctx context.Context, a execIface, cmd command) bool {
	sess := a.guardSession()
	if cmd.guest {
		if d := guard.Login(sess); !d.Allow {
			printlnFn("Already signed in.")
			a.Navigate(ctx, d.Redirect)
			return false
		}
		return true
	}
	if !cmd.auth {
		return true
	}
	if d := guard.Auth(ctx, sess); !d.Allow {
		printlnFn("Please log in first.")
		a.Navigate(ctx, d.Redirect)
		return false
	}
	if len(cmd.perms) > 0 && !sess.CurrentUser().HasAnyPermission(cmd.perms...) {
		printlnFn("Permission denied.")
		return false
	}
	return true
}

// helpText lists the commands available right now: guest commands when
// logged out, permitted commands when logged in.
func helpText(a execIface) string {
	sess := a.guardSession()
	user := sess.CurrentUser()
	loggedIn := sess.IsAuthenticated()

	var names []string
	for _, c := range a.commands() {
		switch {
		case c.guest && loggedIn, c.auth && !loggedIn:
			continue
		case len(c.perms) > 0 && !user.HasAnyPermission(c.perms...):
			continue
		}
		names = append(names, c.usage)
	}
	names = append(names, "help", "exit")
	return "Available commands:\n  " + strings.Join(names, "\n  ")
}

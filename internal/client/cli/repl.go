package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bookkeeper/internal/client/client"
	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
	"github.com/dmitrijs2005/bookkeeper/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Add(ctx context.Context, f models.Family) error
	List(ctx context.Context, f models.Family, mine bool) error
	Show(ctx context.Context, f models.Family, id string) error
	Edit(ctx context.Context, f models.Family, id string) error
	Delete(ctx context.Context, f models.Family, id string) error
	SetCover(ctx context.Context, f models.Family, id, path string) error
	GetCover(ctx context.Context, f models.Family, id string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands:\n" +
		"  books:    add, list, show <id>, edit <id>, delete <id>\n" +
		"  catalog:  share, catalog, mine, showshared <id>, editshared <id>, deleteshared <id>\n" +
		"  covers:   setcover [shared] <id> <file>, getcover [shared] <id>\n" +
		"  account:  me, logout, help, exit"
)

// runREPL reads commands line by line and dispatches them to a until input
// ends or the user types "exit" or "quit". Command errors are reported and
// the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("bk %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if _, known := sessionCommands[cmd]; known {
			return services.ErrNotLoggedIn
		}
		printlnFn("Unknown command:", cmd)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "me":
		return a.Me(ctx)
	case "add":
		return a.Add(ctx, models.FamilyBooks)
	case "share":
		return a.Add(ctx, models.FamilyProfileBooks)
	case "l", "list":
		return a.List(ctx, models.FamilyBooks, true)
	case "catalog":
		return a.List(ctx, models.FamilyProfileBooks, false)
	case "mine":
		return a.List(ctx, models.FamilyProfileBooks, true)
	case "show", "showshared", "edit", "editshared", "delete", "deleteshared":
		if len(args) != 1 {
			printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
			return nil
		}
		return byID(ctx, a, cmd, args[0])
	case "setcover", "getcover":
		f, rest := models.FamilyBooks, args
		if len(rest) > 0 && rest[0] == "shared" {
			f, rest = models.FamilyProfileBooks, rest[1:]
		}
		if cmd == "setcover" {
			if len(rest) != 2 {
				printlnFn("Usage: setcover [shared] <id> <file>")
				return nil
			}
			return a.SetCover(ctx, f, rest[0], rest[1])
		}
		if len(rest) != 1 {
			printlnFn("Usage: getcover [shared] <id>")
			return nil
		}
		return a.GetCover(ctx, f, rest[0])
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

// sessionCommands lists the commands that need a session.
var sessionCommands = map[string]struct{}{
	"logout": {}, "me": {}, "add": {}, "share": {}, "l": {}, "list": {}, "catalog": {}, "mine": {},
	"show": {}, "showshared": {}, "edit": {}, "editshared": {}, "delete": {}, "deleteshared": {},
	"setcover": {}, "getcover": {},
}

func byID(ctx context.Context, a execIface, cmd, id string) error {
	f := models.FamilyBooks
	if base, ok := strings.CutSuffix(cmd, "shared"); ok {
		f, cmd = models.FamilyProfileBooks, base
	}
	switch cmd {
	case "show":
		return a.Show(ctx, f, id)
	case "edit":
		return a.Edit(ctx, f, id)
	default:
		return a.Delete(ctx, f, id)
	}
}

// describeError turns API failures into short user-facing text.
func describeError(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return "please login first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return err.Error()
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookkeeper/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username and password, creates the account and
// logs in with it.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer cryptox.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", a.authService.UserName())
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer cryptox.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(context.Context) error {
	a.authService.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Me prints the current user with the ids of the books they own.
func (a *App) Me(ctx context.Context) error {
	u, err := a.authService.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:            %s\n", u.ID)
	fmt.Fprintf(a.out, "Username:      %s\n", u.UserName)
	fmt.Fprintf(a.out, "Member since:  %s\n", u.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(a.out, "Books:         %s\n", joinIDs(u.BookIDs))
	fmt.Fprintf(a.out, "Shared books:  %s\n", joinIDs(u.ProfileBookIDs))
	return nil
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/client/client"
	"github.com/dmitrijs2005/bookkeeper/internal/client/config"
	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
	"github.com/dmitrijs2005/bookkeeper/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	authService  services.AuthService
	bookService  services.BookService
	shareService services.BookService
	reader       *bufio.Reader
	out          io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient)
	return newApp(c, as,
		services.NewBookService(models.FamilyBooks, apiClient, as),
		services.NewBookService(models.FamilyProfileBooks, apiClient, as),
		os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, as services.AuthService, bs, ss services.BookService, in io.Reader, out io.Writer) *App {
	return &App{
		config:       c,
		authService:  as,
		bookService:  bs,
		shareService: ss,
		reader:       bufio.NewReader(in),
		out:          out,
	}
}

// Run starts the online watcher and the REPL and returns when the user
// quits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to Bookkeeper CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	_, err := a.authService.Token()
	return err == nil
}

func (a *App) getStatus() string {
	s := ""
	if name := a.authService.UserName(); name != "" {
		s = name + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s = strings.TrimSpace(s); s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx is
// done and updates the mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) service(f models.Family) services.BookService {
	if f == models.FamilyProfileBooks {
		return a.shareService
	}
	return a.bookService
}

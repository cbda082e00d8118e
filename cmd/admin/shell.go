package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/admin"
	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/audit"
	"github.com/Skotchmaster/shop_admin/internal/crud"
	"github.com/Skotchmaster/shop_admin/internal/dashboard"
	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/session"
	"github.com/Skotchmaster/shop_admin/internal/view"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

const helpText = `Commands:
  login [-token T]          store a token (read from the next line if -token is omitted)
  logout                    forget the stored token
  products | users          list
  product add | user add    open an add dialog
  product edit <#|id>       open an edit dialog (same for user)
  product rm <#|id>         delete after confirmation (same for user)
  set <field> <value>       edit a field of the open dialog
  attach <path> | detach    choose or drop the product image
  show | save | cancel      open dialog
  dashboard                 sales charts
  help | quit
`

var errQuit = errors.New("quit")

type dialogKind int

const (
	noDialog dialogKind = iota
	productDialog
	userDialog
)

type shell struct {
	ctx   context.Context
	lines chan string
	in    io.Reader
	out   io.Writer

	gate     *session.Gate
	stats    dashboard.Source
	products *admin.ProductController
	users    *admin.UserController

	open   func(name string) (io.ReadCloser, error)
	dialog dialogKind
}

func newShell(in io.Reader, out io.Writer, gate *session.Gate, client *apiclient.Client, pub audit.Publisher) *shell {
	s := &shell{
		in:    in,
		out:   out,
		gate:  gate,
		stats: client,
		open:  func(name string) (io.ReadCloser, error) { return os.Open(name) },
	}
	deps := crud.Deps{Confirmer: s, Notifier: s, Publisher: pub}
	s.products = admin.NewProducts(client.Products(), deps)
	s.users = admin.NewUsers(client.Users(), deps)
	return s
}

func (s *shell) run(ctx context.Context) error {
	s.ctx = ctx
	s.lines = make(chan string)
	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(s.out, "shop admin console, type help for commands")
	for {
		s.prompt()
		line, ok := s.readLine()
		if !ok {
			return ctx.Err()
		}
		if err := s.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *shell) prompt() {
	switch s.dialog {
	case productDialog:
		fmt.Fprint(s.out, "product> ")
	case userDialog:
		fmt.Fprint(s.out, "user> ")
	default:
		fmt.Fprint(s.out, "> ")
	}
}

func (s *shell) readLine() (string, bool) {
	select {
	case line, ok := <-s.lines:
		return strings.TrimSpace(line), ok
	case <-s.ctx.Done():
		return "", false
	}
}

func (s *shell) Notify(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *shell) Confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func splitWord(line string) (string, string) {
	word, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	return word, strings.TrimSpace(rest)
}

func (s *shell) exec(line string) error {
	cmd, rest := splitWord(line)
	switch cmd {
	case "":
		return nil
	case "help":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "login":
		return s.login(rest)
	case "logout":
		if err := s.gate.Logout(s.ctx); err != nil {
			return err
		}
		s.closeDialog()
		fmt.Fprintln(s.out, "Logged out")
		return nil
	case "set", "attach", "detach", "show", "save", "cancel":
		return s.dialogCommand(cmd, rest)
	}

	if err := s.requireLogin(); err != nil {
		return err
	}
	switch cmd {
	case "products":
		return s.listProducts()
	case "users":
		return s.listUsers()
	case "product":
		return s.productCommand(rest)
	case "user":
		return s.userCommand(rest)
	case "dashboard":
		snap := dashboard.New(s.stats).Load(s.ctx)
		return dashboard.Render(s.out, snap)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

var errLoginRequired = errors.New("login required")

func (s *shell) requireLogin() error {
	ok, err := s.gate.LoggedIn(s.ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errLoginRequired
	}
	return nil
}

func (s *shell) login(args string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(s.out)
	token := fs.String("token", "", "bearer token issued by the shop")
	if err := fs.Parse(strings.Fields(args)); err != nil {
		return err
	}
	if *token == "" {
		fmt.Fprint(s.out, "Token: ")
		line, ok := s.readLine()
		if !ok {
			return s.ctx.Err()
		}
		*token = line
	}
	if err := s.gate.Login(s.ctx, *token); err != nil {
		return err
	}
	logging.FromContext(s.ctx).Info("login_success")
	fmt.Fprintln(s.out, "Logged in")
	return nil
}

func (s *shell) closeDialog() {
	s.products.Cancel()
	s.users.Cancel()
	s.dialog = noDialog
}

// resolve finds a row by its 1-based list number or by id.
func resolve[E any](items []E, id func(E) string, ref string) (E, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	for _, it := range items {
		if id(it) == ref {
			return it, true
		}
	}
	var zero E
	return zero, false
}

func productID(p models.Product) string { return p.ID }

func userID(u models.User) string { return u.ID }

func (s *shell) listProducts() error {
	_ = s.products.LoadAll(s.ctx)
	if !s.products.Loaded() {
		return nil
	}
	return view.Products(s.out, s.products.Items())
}

func (s *shell) listUsers() error {
	_ = s.users.LoadAll(s.ctx)
	if !s.users.Loaded() {
		return nil
	}
	return view.Users(s.out, s.users.Items())
}

func (s *shell) productCommand(args string) error {
	sub, ref := splitWord(args)
	switch sub {
	case "add":
		s.closeDialog()
		s.dialog = productDialog
		return view.ProductForm(s.out, s.products.OpenCreate())
	case "edit", "rm":
		if !s.products.Loaded() {
			if err := s.products.LoadAll(s.ctx); err != nil {
				return nil
			}
		}
		p, ok := resolve(s.products.Items(), productID, ref)
		if !ok {
			return fmt.Errorf("no product %q", ref)
		}
		if sub == "edit" {
			s.closeDialog()
			s.dialog = productDialog
			return view.ProductForm(s.out, s.products.OpenEdit(p))
		}
		removed, err := s.products.Remove(s.ctx, p.ID)
		if errors.Is(err, crud.ErrInFlight) {
			return err
		}
		if removed {
			return view.Products(s.out, s.products.Items())
		}
		return nil
	default:
		return fmt.Errorf("usage: product add | edit <#|id> | rm <#|id>")
	}
}

func (s *shell) userCommand(args string) error {
	sub, ref := splitWord(args)
	switch sub {
	case "add":
		s.closeDialog()
		s.dialog = userDialog
		return view.UserForm(s.out, s.users.OpenCreate())
	case "edit", "rm":
		if !s.users.Loaded() {
			if err := s.users.LoadAll(s.ctx); err != nil {
				return nil
			}
		}
		u, ok := resolve(s.users.Items(), userID, ref)
		if !ok {
			return fmt.Errorf("no user %q", ref)
		}
		if sub == "edit" {
			s.closeDialog()
			s.dialog = userDialog
			return view.UserForm(s.out, s.users.OpenEdit(u))
		}
		removed, err := s.users.Remove(s.ctx, u.ID)
		if errors.Is(err, crud.ErrInFlight) {
			return err
		}
		if removed {
			return view.Users(s.out, s.users.Items())
		}
		return nil
	default:
		return fmt.Errorf("usage: user add | edit <#|id> | rm <#|id>")
	}
}

func (s *shell) dialogCommand(cmd, args string) error {
	switch s.dialog {
	case productDialog:
		return s.productDialogCommand(cmd, args)
	case userDialog:
		return s.userDialogCommand(cmd, args)
	default:
		return crud.ErrNoSession
	}
}

func (s *shell) productDialogCommand(cmd, args string) error {
	sess := s.products.Session()
	if sess == nil {
		s.dialog = noDialog
		return crud.ErrNoSession
	}
	switch cmd {
	case "set":
		field, value := splitWord(args)
		return sess.Set(field, value)
	case "attach":
		f, err := s.open(args)
		if err != nil {
			return err
		}
		defer f.Close()
		return sess.Draft().Attach(args, f)
	case "detach":
		sess.Draft().Detach()
		return nil
	case "show":
		return view.ProductForm(s.out, sess)
	case "cancel":
		s.closeDialog()
		return nil
	}

	_, err := s.products.Submit(s.ctx)
	switch {
	case err == nil:
		s.dialog = noDialog
		return view.Products(s.out, s.products.Items())
	case errors.Is(err, form.ErrValidation):
		return view.ProductForm(s.out, sess)
	case errors.Is(err, crud.ErrInFlight):
		return err
	default:
		// the controller already showed a notice
		return nil
	}
}

func (s *shell) userDialogCommand(cmd, args string) error {
	sess := s.users.Session()
	if sess == nil {
		s.dialog = noDialog
		return crud.ErrNoSession
	}
	switch cmd {
	case "set":
		field, value := splitWord(args)
		return sess.Set(field, value)
	case "attach", "detach":
		return fmt.Errorf("users have no image")
	case "show":
		return view.UserForm(s.out, sess)
	case "cancel":
		s.closeDialog()
		return nil
	}

	_, err := s.users.Submit(s.ctx)
	switch {
	case err == nil:
		s.dialog = noDialog
		return view.Users(s.out, s.users.Items())
	case errors.Is(err, form.ErrValidation):
		return view.UserForm(s.out, sess)
	case errors.Is(err, crud.ErrInFlight):
		return err
	default:
		return nil
	}
}

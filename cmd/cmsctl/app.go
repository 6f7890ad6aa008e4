package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/container"
)

var errUsage = errors.New("usage")

type app struct {
	c      *container.Container
	prompt Prompter
	out    io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "resources":
		return a.resources()
	case "login":
		return a.login(ctx, true)
	case "list":
		return a.list(ctx, rest)
	case "show":
		return a.show(ctx, rest)
	case "create":
		if len(rest) != 1 {
			return errUsage
		}
		return a.edit(ctx, rest[0], nil)
	case "edit":
		return a.editCommand(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "upload":
		return a.upload(ctx, rest)
	case "help", "-h", "--help":
		return errUsage
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

func (a *app) descriptor(path string) (resource.Descriptor, error) {
	desc, ok := a.c.Registry.Get(strings.Trim(path, "/"))
	if !ok {
		return resource.Descriptor{}, fmt.Errorf("unknown resource %q (see cmsctl resources)", path)
	}
	return desc, nil
}

func (a *app) service(desc resource.Descriptor) *resource.Service[record] {
	return resource.NewService[record](desc, a.c.API, a.c.Queries)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// ========================================
// COMMANDS
// ========================================

func (a *app) resources() error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tNAME\tUPLOAD FOLDER")
	for _, d := range a.c.Registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Path, d.Name, d.Folder)
	}
	return w.Flush()
}

// login asks for credentials and stores the token in the session. Writes call
// it lazily when no token is configured.
func (a *app) login(ctx context.Context, printToken bool) error {
	username, err := a.prompt.Input("Username", "", "")
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	res, err := a.c.API.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", res.User.Username, res.User.Role)
	if printToken {
		fmt.Fprintf(a.out, "export API_TOKEN=%s\n", res.Token)
	}
	return nil
}

func (a *app) ensureSession(ctx context.Context) error {
	if a.c.Session.Token() != "" {
		return nil
	}
	return a.login(ctx, false)
}

type filterFlag map[string]string

func (f filterFlag) String() string { return fmt.Sprint(map[string]string(f)) }

func (f filterFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("filter must be key=value, got %q", s)
	}
	f[k] = v
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	desc, err := a.descriptor(args[0])
	if err != nil {
		return err
	}
	if desc.Singleton {
		return a.printContent(ctx, desc)
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 10, "items per page")
	filters := filterFlag{}
	fs.Var(filters, "filter", "key=value, repeatable")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%v: %w", err, errUsage)
	}

	res, err := a.service(desc).ListPage(ctx, client.PageQuery{Page: *page, PerPage: *perPage, Filters: filters})
	if err != nil {
		return err
	}

	cols := columns(desc)
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(cols, "\t")))
	for _, r := range res.Items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = truncate(r.text(c), 40)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if m := res.Meta; m != nil {
		fmt.Fprintf(a.out, "page %d/%d (%d items)\n", m.CurrentPage, m.TotalPages, m.TotalItems)
	}
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	desc, err := a.descriptor(args[0])
	if err != nil {
		return err
	}
	if desc.Singleton {
		return a.printContent(ctx, desc)
	}
	if len(args) != 2 {
		return errUsage
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	r, err := a.service(desc).Get(ctx, id)
	if err != nil {
		return err
	}
	a.printRecord(desc, r)
	return nil
}

func (a *app) printContent(ctx context.Context, desc resource.Descriptor) error {
	r, err := a.service(desc).Content(ctx)
	if err != nil {
		return err
	}
	a.printRecord(desc, r)
	return nil
}

func (a *app) printRecord(desc resource.Descriptor, r record) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if !desc.Singleton {
		fmt.Fprintf(w, "id\t%s\n", r.text("id"))
	}
	for _, k := range desc.Schema.Keys() {
		fmt.Fprintf(w, "%s\t%s\n", k, r.text(k))
	}
	w.Flush()
}

func (a *app) editCommand(ctx context.Context, args []string) error {
	switch len(args) {
	case 1:
		desc, err := a.descriptor(args[0])
		if err != nil {
			return err
		}
		if !desc.Singleton {
			return errUsage
		}
		return a.edit(ctx, args[0], nil)
	case 2:
		return a.edit(ctx, args[0], &args[1])
	}
	return errUsage
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	desc, err := a.descriptor(args[0])
	if err != nil {
		return err
	}
	if desc.Singleton {
		return fmt.Errorf("%s cannot be deleted", desc.Name)
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	ok, err := a.prompt.Confirm(fmt.Sprintf("Delete %s %d?", desc.Name, id), false)
	if err != nil || !ok {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	if err := a.service(desc).Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %d deleted\n", desc.Name, id)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	folder := ""
	if len(args) == 2 {
		folder = args[1]
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	res, err := a.uploadFile(ctx, args[0], folder)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "file_url\t%s\nthumbnail_url\t%s\nfile_size\t%d\n", res.FileURL, res.ThumbnailURL, res.FileSize)
	if res.Width != nil && res.Height != nil {
		fmt.Fprintf(a.out, "dimensions\t%dx%d\n", *res.Width, *res.Height)
	}
	return nil
}

func (a *app) uploadFile(ctx context.Context, name, folder string) (*client.UploadResult, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return a.c.Uploader.Upload(ctx, client.File{Name: filepath.Base(name), Content: f}, folder)
}

// columns picks the id plus a few short fields for list output.
func columns(desc resource.Descriptor) []string {
	cols := []string{"id"}
	for _, f := range desc.Schema.Fields {
		if len(cols) == 4 {
			break
		}
		if f.ThumbnailOf != "" || f.Kind == form.KindURL {
			continue
		}
		cols = append(cols, f.Name)
	}
	return cols
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/dialog"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
)

// printNotifier writes dialog notifications to the terminal.
type printNotifier struct{ a *app }

func (n printNotifier) Success(msg string) { fmt.Fprintln(n.a.out, msg) }

func (n printNotifier) Error(msg string, err error) {
	fmt.Fprintf(n.a.out, "failed: %s\n", msg)
}

// edit runs one dialog: it opens on the record (create when id is nil),
// prompts every field, and submits. Field errors re-prompt only the failing
// keys; a service failure keeps the draft and offers a retry.
func (a *app) edit(ctx context.Context, path string, id *string) error {
	desc, err := a.descriptor(path)
	if err != nil {
		return err
	}
	svc := a.service(desc)

	var bound *record
	switch {
	case desc.Singleton:
		r, err := svc.Content(ctx)
		if err != nil {
			return err
		}
		bound = &r
	case id != nil:
		n, err := parseID(*id)
		if err != nil {
			return err
		}
		r, err := svc.Get(ctx, n)
		if err != nil {
			return err
		}
		bound = &r
	}

	if err := a.ensureSession(ctx); err != nil {
		return err
	}

	ctrl := dialog.New[record](desc.Schema, svc, dialog.Options{
		Uploader: a.c.Uploader,
		Folder:   desc.Folder,
		Notifier: printNotifier{a: a},
	})
	if err := ctrl.Open(bound); err != nil {
		return err
	}
	defer ctrl.Close()

	refs, err := svc.References(ctx)
	if err != nil {
		return err
	}
	ctrl.SetReferences(refs)

	keys := desc.Schema.Keys()
	for {
		for _, key := range keys {
			if err := a.askField(ctx, desc, ctrl, key, refs); err != nil {
				return err
			}
		}

		saved, err := ctrl.Submit(ctx)
		if err == nil {
			if !desc.Singleton {
				fmt.Fprintf(a.out, "%s id %d\n", desc.Name, saved.Identity())
			}
			return nil
		}

		if ferr := ctrl.FieldErrors(); ferr != nil && ctrl.State() != dialog.Closed {
			for _, k := range ferr.Keys() {
				fmt.Fprintf(a.out, "  %s: %s\n", k, strings.Join(ferr.Field(k), ", "))
			}
			keys = ferr.Keys()
			continue
		}
		if ctrl.State() == dialog.Closed {
			return err
		}

		retry, perr := a.prompt.Confirm("Retry with the same values?", errors.Is(err, apperr.ErrConnectivity))
		if perr != nil {
			return perr
		}
		if !retry {
			return err
		}
		keys = nil
	}
}

func (a *app) askField(ctx context.Context, desc resource.Descriptor, ctrl *dialog.Controller[record], key string, refs form.References) error {
	f, _ := desc.Schema.Field(key)
	label := fieldLabel(f, key)
	draft := ctrl.Draft()

	switch {
	case f.Kind == form.KindBool:
		def, _ := draft[key].(bool)
		v, err := a.prompt.Confirm(label, def)
		if err != nil {
			return err
		}
		return ctrl.Set(key, v)

	case f.Kind == form.KindChoice:
		v, err := a.prompt.Select(label, f.Options, draft.String(key))
		if err != nil {
			return err
		}
		return ctrl.Set(key, v)

	case f.Kind == form.KindForeignKey && len(refs[f.Lookup]) > 0:
		v, err := a.prompt.Select(label, refIDs(refs[f.Lookup]), draft.String(key))
		if err != nil {
			return err
		}
		return ctrl.Set(key, v)

	case f.Kind == form.KindURL && f.ThumbnailOf == "" && desc.Folder != "":
		v, err := a.prompt.Input(label, draft.String(key), "a URL, or a local file to upload to "+desc.Folder)
		if err != nil {
			return err
		}
		if isLocalFile(v) {
			return a.uploadInto(ctx, ctrl, key, v)
		}
		return ctrl.Set(key, v)
	}

	help := ""
	if f.DeriveFrom != "" {
		help = "leave empty to generate from " + f.DeriveFrom
	}
	v, err := a.prompt.Input(label, draft.String(key), help)
	if err != nil {
		return err
	}
	return ctrl.Set(key, v)
}

func (a *app) uploadInto(ctx context.Context, ctrl *dialog.Controller[record], key, name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	res, err := ctrl.Upload(ctx, key, client.File{Name: filepath.Base(name), Content: file})
	if err != nil {
		// already reported by the notifier; the field keeps its old value
		return nil
	}
	fmt.Fprintf(a.out, "  uploaded %s\n", res.FileURL)
	return nil
}

func fieldLabel(f form.Field, key string) string {
	label := f.Label
	if label == "" {
		label = strings.ReplaceAll(f.Name, "_", " ")
	}
	if f.Kind == form.KindBilingual {
		if key == f.Name {
			label += " (EN)"
		} else {
			label += " (ID)"
		}
	}
	if f.Required {
		label += " *"
	}
	return label
}

func refIDs(set map[int64]struct{}) []string {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

func isLocalFile(s string) bool {
	if s == "" || strings.Contains(s, "://") {
		return false
	}
	st, err := os.Stat(s)
	return err == nil && st.Mode().IsRegular()
}

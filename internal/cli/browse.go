package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

const browseHelp = `Commands:
  /TEXT      search (applied once typing pauses; "/" clears)
  n, p       next or previous page
  g N        go to page N
  f KEY=VAL  set a filter, VAL=ALL removes it
  s [F,DIR]  sort by field, without arguments flips the direction
  c          clear filters and search
  r          refresh
  o ID       open one record
  d ID       delete a record
  q          quit
`

// browser is the interactive list screen of one collection
type browser interface {
	browse(ctx context.Context, a *App) error
}

func browseCmd(a *App) *cobra.Command {
	screens := map[string]browser{}
	for _, d := range definitions() {
		screens[d.name()] = d
		for _, alias := range d.aliasNames() {
			screens[alias] = d
		}
	}
	names := make([]string, 0, len(screens))
	for _, d := range definitions() {
		names = append(names, d.name())
	}
	sort.Strings(names)

	return &cobra.Command{
		Use:       "browse RESOURCE",
		Short:     "Browse a collection interactively",
		Long:      "Browse a collection interactively. Commands are read line by line from stdin.\n\n" + browseHelp,
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, ok := screens[args[0]]
			if !ok {
				return fmt.Errorf("unknown resource %q, expected one of: %s", args[0], strings.Join(names, ", "))
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			return screen.browse(cmd.Context(), a)
		},
	}
}

func (d *resourceDef[T, C, U]) name() string        { return d.use }
func (d *resourceDef[T, C, U]) aliasNames() []string { return d.aliases }

func (d *resourceDef[T, C, U]) browse(ctx context.Context, a *App) error {
	ctrl, err := d.controller(a, listFlags{})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	// the subscription redraws whenever a fetch or hint changes what is shown
	var last string
	unsubscribe := ctrl.Subscribe(func(v listing.View[T]) {
		if v.State == listing.StateLoading {
			return
		}
		key := fmt.Sprintf("%v|%d|%d|%v|%+v", v.State, v.Page, v.TotalItems, v.Query, v.Items)
		a.outMu.Lock()
		defer a.outMu.Unlock()
		if key == last {
			return
		}
		last = key
		renderView(a.out, v, d.columns)
	})
	defer unsubscribe()

	a.printf("Browsing %s, type ? for help\n", d.use)
	if err := ctrl.Load(ctx); err != nil && apperrors.Is(err, apperrors.KindUnauthorized) {
		return reported(err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := a.readLine()
		if err == io.EOF {
			ctrl.FlushSearch()
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			ctrl.SetSearchInput(strings.TrimSpace(line[1:]))
			continue
		}
		// a submitted command acts on the committed search
		ctrl.FlushSearch()

		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(verb) {
		case "q", "quit", "exit":
			return nil
		case "?", "h", "help":
			a.printf("%s", browseHelp)
		case "n", "next":
			if v := ctrl.View(); v.Page >= v.TotalPages {
				a.notify(listing.NoticeInfo, "Already on the last page")
				continue
			}
			_ = ctrl.Next(ctx)
		case "p", "prev":
			if ctrl.View().Page <= 1 {
				a.notify(listing.NoticeInfo, "Already on the first page")
				continue
			}
			_ = ctrl.Prev(ctx)
		case "g", "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				a.notify(listing.NoticeError, fmt.Sprintf("Invalid page %q", arg))
				continue
			}
			_ = ctrl.GoTo(ctx, n)
		case "f", "filter":
			filters, err := parseFilters([]string{arg})
			if err != nil {
				a.notify(listing.NoticeError, apperrors.UserMessage(err))
				continue
			}
			_ = ctrl.SetFilters(ctx, filters)
		case "s", "sort":
			if arg == "" {
				_ = ctrl.ToggleSort(ctx)
			} else {
				_ = ctrl.SetSort(ctx, listing.ParseSort(arg))
			}
		case "c", "clear":
			_ = ctrl.ClearFilters(ctx)
		case "r", "refresh":
			a.outMu.Lock()
			last = ""
			a.outMu.Unlock()
			_ = ctrl.Refresh(ctx)
		case "o", "open":
			id, err := parseID(arg)
			if err != nil {
				a.notify(listing.NoticeError, apperrors.UserMessage(err))
				continue
			}
			item, err := ctrl.Open(ctx, id, d.service(a).Get)
			if err != nil {
				continue
			}
			a.outMu.Lock()
			renderRecord(a.out, d.fields(item))
			a.outMu.Unlock()
		case "d", "delete":
			id, err := parseID(arg)
			if err != nil {
				a.notify(listing.NoticeError, apperrors.UserMessage(err))
				continue
			}
			err = ctrl.Delete(ctx, id, a.confirmer(), d.service(a).Delete)
			if apperrors.Is(err, apperrors.KindCancelled) {
				a.notify(listing.NoticeInfo, "Cancelled")
			}
		default:
			a.notify(listing.NoticeError, fmt.Sprintf("Unknown command %q, type ? for help", verb))
		}
	}
}

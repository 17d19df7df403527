package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

// crud is the slice of a resource service the generic commands drive
type crud[T any, C any, U any] interface {
	Fetch() listing.FetchFunc[T]
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, req C) (T, error)
	Update(ctx context.Context, id int64, req U) (T, error)
	Delete(ctx context.Context, id int64) error
}

// resourceDef describes one entity collection as a command group
type resourceDef[T any, C any, U any] struct {
	use     string
	aliases []string
	short   string
	// noun labels notices and confirmations, e.g. "appointment"
	noun    string
	service func(a *App) crud[T, C, U]
	sort    listing.Sort
	filters func() map[string]string
	id      func(T) int64
	columns []column[T]
	fields  func(T) []field

	// createFlags registers the create flags and returns the request builder
	createFlags func(cmd *cobra.Command) func() (C, error)
	// updateFlags returns a builder that only sets flags the user changed
	updateFlags func(cmd *cobra.Command) func() (U, error)
	extra       func(a *App, d *resourceDef[T, C, U]) []*cobra.Command
}

func (d *resourceDef[T, C, U]) command(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     d.use,
		Aliases: d.aliases,
		Short:   d.short,
	}
	cmd.AddCommand(d.listCmd(a), d.getCmd(a), d.deleteCmd(a))
	if d.createFlags != nil {
		cmd.AddCommand(d.createCmd(a))
	}
	if d.updateFlags != nil {
		cmd.AddCommand(d.updateCmd(a))
	}
	if d.extra != nil {
		cmd.AddCommand(d.extra(a, d)...)
	}
	return cmd
}

// listFlags are the initial query of a list command. Zero values fall back
// to the collection defaults.
type listFlags struct {
	page    int
	size    int
	sort    string
	search  string
	filters []string
}

// controller builds a list controller with the default filters overlaid by
// the flag filters
func (d *resourceDef[T, C, U]) controller(a *App, f listFlags) (*listing.Controller[T], error) {
	filters := map[string]string{}
	if d.filters != nil {
		filters = d.filters()
	}
	overrides, err := parseFilters(f.filters)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		filters[k] = v
	}

	sort := listing.ParseSort(f.sort)
	if sort.Field == "" {
		sort = d.sort
	}
	opts := a.listingOptions(d.noun, sort, filters)
	if f.size > 0 {
		opts.PageSize = f.size
	}
	return listing.NewController(d.service(a).Fetch(), d.id, opts), nil
}

func (d *resourceDef[T, C, U]) listCmd(a *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + d.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctrl, err := d.controller(a, f)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			ctx := cmd.Context()

			if f.search != "" {
				err = ctrl.SetSearch(ctx, f.search)
			} else {
				err = ctrl.Load(ctx)
			}
			if err == nil && f.page > 1 {
				err = ctrl.GoTo(ctx, f.page)
			}
			if err != nil {
				return reported(err)
			}

			a.outMu.Lock()
			renderView(a.out, ctrl.View(), d.columns)
			a.outMu.Unlock()
			return nil
		},
	}
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&f.size, "size", 0, "Rows per page (default from config)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort as field,asc or field,desc")
	cmd.Flags().StringVar(&f.search, "search", "", "Free text search")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Filter as key=value, repeatable")
	return cmd
}

func (d *resourceDef[T, C, U]) getCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one " + d.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			item, err := d.service(a).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.outMu.Lock()
			renderRecord(a.out, d.fields(item))
			a.outMu.Unlock()
			return nil
		},
	}
}

func (d *resourceDef[T, C, U]) createCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + d.noun,
		Args:  cobra.NoArgs,
	}
	build := d.createFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		req, err := build()
		if err != nil {
			return err
		}
		item, err := d.service(a).Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		a.notify(listing.NoticeSuccess, fmt.Sprintf("Created %s #%d", d.noun, d.id(item)))
		a.outMu.Lock()
		renderRecord(a.out, d.fields(item))
		a.outMu.Unlock()
		return nil
	}
	return cmd
}

func (d *resourceDef[T, C, U]) updateCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a " + d.noun,
		Args:  cobra.ExactArgs(1),
	}
	build := d.updateFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.requireLogin(); err != nil {
			return err
		}
		req, err := build()
		if err != nil {
			return err
		}
		item, err := d.service(a).Update(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		a.notify(listing.NoticeSuccess, fmt.Sprintf("Updated %s #%d", d.noun, id))
		a.outMu.Lock()
		renderRecord(a.out, d.fields(item))
		a.outMu.Unlock()
		return nil
	}
	return cmd
}

func (d *resourceDef[T, C, U]) deleteCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + d.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			var confirm listing.Confirmer
			if !yes {
				confirm = a.confirmer()
			}
			ctrl, err := d.controller(a, listFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			err = ctrl.Delete(cmd.Context(), id, confirm, d.service(a).Delete)
			if apperrors.Is(err, apperrors.KindCancelled) {
				a.notify(listing.NoticeInfo, "Cancelled")
				return nil
			}
			return reported(err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Precondition(fmt.Sprintf("Invalid id %q", s))
	}
	return id, nil
}

// parseFilters turns key=value pairs into a filter map
func parseFilters(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, apperrors.Precondition(fmt.Sprintf("Invalid filter %q, expected key=value", p))
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// optional returns a pointer to v when the named flag was set
func optional[V any](cmd *cobra.Command, name string, v V) *V {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func fmtID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

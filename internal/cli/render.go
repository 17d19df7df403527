package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

type column[T any] struct {
	title string
	value func(T) string
}

func col[T any](title string, value func(T) string) column[T] {
	return column[T]{title: title, value: value}
}

// badge renders a status through the shared badge mapping. Danger tones are
// upper-cased so they stand out without colour.
func badge(status string) string {
	b := model.BadgeFor(status)
	if b.Tone == model.ToneDanger {
		return strings.ToUpper(b.Label)
	}
	return b.Label
}

// renderView draws one snapshot of a list surface
func renderView[T any](w io.Writer, v listing.View[T], cols []column[T]) {
	switch v.State {
	case listing.StateLoading:
		fmt.Fprintln(w, "Loading...")
		return
	case listing.StateEmpty:
		fmt.Fprintln(w, "No results.")
		if v.CanClearFilters {
			fmt.Fprintln(w, "Filters are active, press c to clear them.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, item := range v.Items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.value(item)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Page %d of %d (%d items)", v.Page, v.TotalPages, v.TotalItems)
	if v.Query.Sort.Field != "" {
		fmt.Fprintf(w, " sorted by %s %s", v.Query.Sort.Field, v.Query.Sort.Direction)
	}
	if v.Query.Search != "" {
		fmt.Fprintf(w, " matching %q", v.Query.Search)
	}
	fmt.Fprintln(w)
}

type field struct {
	name  string
	value string
}

// renderRecord prints one entity as aligned name/value pairs
func renderRecord(w io.Writer, fields []field) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.name, f.value)
	}
	_ = tw.Flush()
}

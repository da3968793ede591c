package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"storerating/internal/domain/entity"
	"storerating/internal/usecase"
)

const anonymousName = "Anonymous User"

// platformView is the administrator dashboard: totals plus every principal and store.
type platformView struct {
	directory usecase.DirectoryUsecase
}

func (v *platformView) Name() string { return "platform" }

func (v *platformView) Render(ctx context.Context, w io.Writer, _ *entity.Principal) error {
	stats, err := v.directory.PlatformStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Platform overview ===")
	fmt.Fprintf(w, "Principals: %d  Stores: %d  Ratings: %d\n", stats.TotalPrincipals, stats.TotalStores, stats.TotalRatings)

	principals, err := v.directory.ListPrincipals(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nPrincipals:")
	for _, p := range principals {
		fmt.Fprintf(w, "  %-28s %-32s %s\n", p.Name, p.Email, p.Role)
	}

	stores, err := v.directory.ListStores(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nStores:")
	writeStores(w, stores)

	return nil
}

// directoryView is the customer dashboard: every store with its aggregate and the
// customer's own score.
type directoryView struct {
	directory usecase.DirectoryUsecase
	ratings   usecase.RatingUsecase
}

func (v *directoryView) Name() string { return "directory" }

func (v *directoryView) Render(ctx context.Context, w io.Writer, principal *entity.Principal) error {
	stores, err := v.directory.ListStores(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Store directory ===")
	for i, store := range stores {
		mine := "-"
		rating, err := v.ratings.GetUserRatingFor(ctx, principal.ID, store.ID)
		if err != nil {
			return err
		}
		if rating != nil {
			mine = fmt.Sprintf("%d", rating.Value)
		}

		fmt.Fprintf(w, "%2d) %-28s %s  your rating: %s\n", i+1, store.Name, formatAggregate(store.Aggregate()), mine)
		fmt.Fprintf(w, "    %s\n", store.Address)
	}
	fmt.Fprintln(w, "\nUse `rate <n> <1-5>` to rate a store.")

	return nil
}

// ownedStoreView is the store owner dashboard: the owned store and who rated it.
type ownedStoreView struct {
	directory usecase.DirectoryUsecase
}

func (v *ownedStoreView) Name() string { return "owned store" }

func (v *ownedStoreView) Render(ctx context.Context, w io.Writer, principal *entity.Principal) error {
	overview, err := v.directory.OwnerOverview(ctx, principal.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== %s ===\n", overview.Store.Name)
	fmt.Fprintf(w, "%s\n", formatAggregate(overview.Store.Aggregate()))

	if len(overview.Ratings) == 0 {
		fmt.Fprintln(w, "No ratings yet.")

		return nil
	}

	fmt.Fprintln(w, "\nRatings:")
	for _, row := range overview.Ratings {
		name := row.RaterName
		if name == "" {
			name = anonymousName
		}
		fmt.Fprintf(w, "  %s %-28s %-32s %s\n", stars(row.Rating.Value), name, row.RaterEmail, row.Rating.CreatedAt.Format("2006-01-02"))
	}

	return nil
}

func writeStores(w io.Writer, stores []*entity.Store) {
	for i, store := range stores {
		fmt.Fprintf(w, "%2d) %-28s %s\n", i+1, store.Name, formatAggregate(store.Aggregate()))
	}
}

func formatAggregate(agg entity.Aggregate) string {
	if agg.Count == 0 {
		return "no ratings"
	}

	return fmt.Sprintf("%.1f/5 (%d)", agg.Average, agg.Count)
}

func stars(v entity.RatingValue) string {
	n := int(v)

	return strings.Repeat("*", n) + strings.Repeat(".", int(entity.MaxRatingValue)-n)
}

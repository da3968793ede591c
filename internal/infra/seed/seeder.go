package seed

import (
	"context"
	"log/slog"

	"storerating/config"
	"storerating/internal/domain/entity"
	"storerating/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the Seeder, injected by Fx.
type Params struct {
	fx.In

	Config    *config.Config
	Directory usecase.DirectoryUsecase
	Ratings   usecase.RatingUsecase
	Logger    *slog.Logger
}

// Seeder writes a fixture through the directory and the rating ledger, so store
// aggregates are always derived from the replayed ratings.
type Seeder struct {
	cfg       *config.Config
	directory usecase.DirectoryUsecase
	ratings   usecase.RatingUsecase
	logger    *slog.Logger
}

// Result summarises one applied fixture. The counts cover entries written by this run only.
type Result struct {
	Principals int
	Stores     int
	Ratings    int
	Skipped    bool
}

// NewSeeder is the constructor for Seeder.
func NewSeeder(params Params) *Seeder {
	return &Seeder{
		cfg:       params.Config,
		directory: params.Directory,
		ratings:   params.Ratings,
		logger:    params.Logger,
	}
}

// Run loads the configured fixture and applies it. No seed path means nothing to do.
func (s *Seeder) Run(ctx context.Context) error {
	if s.cfg == nil || s.cfg.Seed == nil || s.cfg.Seed.Path == "" {
		return nil
	}

	fixture, err := LoadFixture(s.cfg.Seed.Path)
	if err != nil {
		return err
	}

	result, err := s.Apply(ctx, fixture)
	if err != nil {
		return err
	}

	if result.Skipped {
		s.logger.Info("Directory already holds the seed fixture, seed skipped")

		return nil
	}

	s.logger.Info("Directory seeded",
		slog.Int("principals", result.Principals),
		slog.Int("stores", result.Stores),
		slog.Int("ratings", result.Ratings),
	)

	return nil
}

// Apply writes the entries of fixture that are not in the directory yet, so a run
// that failed partway is completed by the next one. Seeded ratings that already
// exist are never replayed, which keeps later revisions. A directory that already
// holds every entry is left alone and reported as skipped.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) (*Result, error) {
	state, err := s.inspect(ctx, fixture)
	if err != nil {
		return nil, err
	}
	if state.complete() {
		return &Result{Skipped: true}, nil
	}

	result := &Result{}

	for _, p := range fixture.Principals {
		id := PrincipalID(p.Key)
		if state.principals[id] {
			continue
		}

		_, err := s.directory.CreatePrincipal(ctx, usecase.CreatePrincipalInput{
			ID:       id,
			Name:     p.Name,
			Email:    p.Email,
			Address:  p.Address,
			Password: fixture.Password,
			Role:     p.Role,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed principal %q", p.Key)
		}
		result.Principals++
	}

	for _, st := range fixture.Stores {
		id := StoreID(st.Key)
		if state.stores[id] {
			continue
		}

		_, err := s.directory.ProvisionStore(ctx, usecase.ProvisionStoreInput{
			ID:      id,
			OwnerID: PrincipalID(st.Owner),
			Name:    st.Name,
			Email:   st.Email,
			Address: st.Address,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed store %q", st.Key)
		}
		result.Stores++
	}

	for i, r := range fixture.Ratings {
		if state.ratings[i] {
			continue
		}

		_, err := s.ratings.SubmitRating(ctx, PrincipalID(r.User), StoreID(r.Store), entity.RatingValue(r.Value))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed rating of %q for %q", r.User, r.Store)
		}
		result.Ratings++
	}

	return result, nil
}

// seedState records which fixture entries the directory already holds.
type seedState struct {
	principals map[uuid.UUID]bool
	stores     map[uuid.UUID]bool
	ratings    []bool

	missing int
}

func (st *seedState) complete() bool {
	return st.missing == 0
}

func (s *Seeder) inspect(ctx context.Context, fixture *Fixture) (*seedState, error) {
	principals, err := s.directory.ListPrincipals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to inspect directory before seeding")
	}
	stores, err := s.directory.ListStores(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to inspect directory before seeding")
	}

	state := &seedState{
		principals: make(map[uuid.UUID]bool, len(principals)),
		stores:     make(map[uuid.UUID]bool, len(stores)),
		ratings:    make([]bool, len(fixture.Ratings)),
	}
	for _, p := range principals {
		state.principals[p.ID] = true
	}
	for _, st := range stores {
		state.stores[st.ID] = true
	}

	for _, p := range fixture.Principals {
		if !state.principals[PrincipalID(p.Key)] {
			state.missing++
		}
	}
	for _, st := range fixture.Stores {
		if !state.stores[StoreID(st.Key)] {
			state.missing++
		}
	}
	for i, r := range fixture.Ratings {
		userID, storeID := PrincipalID(r.User), StoreID(r.Store)
		if !state.principals[userID] || !state.stores[storeID] {
			state.missing++

			continue
		}

		rating, err := s.ratings.GetUserRatingFor(ctx, userID, storeID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to inspect seeded ratings")
		}
		state.ratings[i] = rating != nil
		if rating == nil {
			state.missing++
		}
	}

	return state, nil
}

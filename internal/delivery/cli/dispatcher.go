package cli

import (
	"context"
	"io"

	"storerating/internal/domain/entity"
	"storerating/internal/usecase"

	"github.com/pkg/errors"
)

// ErrUnknownRole is returned when a principal's role has no view.
var ErrUnknownRole = errors.New("no view for role")

// View renders one dashboard for the active principal.
type View interface {
	Name() string
	Render(ctx context.Context, w io.Writer, principal *entity.Principal) error
}

// Dispatcher picks the dashboard for a role.
type Dispatcher struct {
	views map[entity.Role]View
}

// NewDispatcher is the constructor for Dispatcher.
func NewDispatcher(directory usecase.DirectoryUsecase, ratings usecase.RatingUsecase) *Dispatcher {
	return &Dispatcher{
		views: map[entity.Role]View{
			entity.RoleAdmin:      &platformView{directory: directory},
			entity.RoleCustomer:   &directoryView{directory: directory, ratings: ratings},
			entity.RoleStoreOwner: &ownedStoreView{directory: directory},
		},
	}
}

// ViewFor returns the view of role, or ErrUnknownRole.
func (d *Dispatcher) ViewFor(role entity.Role) (View, error) {
	view, ok := d.views[role]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRole, "%q", role)
	}

	return view, nil
}

// Render draws the view of principal's role.
func (d *Dispatcher) Render(ctx context.Context, w io.Writer, principal *entity.Principal) error {
	view, err := d.ViewFor(principal.Role)
	if err != nil {
		return err
	}

	return view.Render(ctx, w, principal)
}

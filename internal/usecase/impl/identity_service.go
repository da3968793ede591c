// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storerating/config"
	deliverycontext "storerating/internal/delivery/context"
	"storerating/internal/domain/entity"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	principalRepo  repository.PrincipalRepository
	credentialRepo repository.CredentialRepository
	sessionRepo    repository.SessionRepository
	hasher         service.PasswordHasher
	creator        *principalCreator
	validate       *validator.Validate
	decoyHash      func() string
	latency        time.Duration
	logger         *slog.Logger

	// mu guards active and every write to the session cell.
	mu     sync.Mutex
	active *entity.Principal
}

// IdentityServiceParams holds dependencies for IdentityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	PrincipalRepo  repository.PrincipalRepository
	CredentialRepo repository.CredentialRepository
	SessionRepo    repository.SessionRepository
	Hasher         service.PasswordHasher
	Clock          service.Clock
	Config         *config.Config
	Logger         *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	var latency time.Duration
	if params.Config != nil && params.Config.Identity != nil {
		latency = params.Config.Identity.Latency
	}

	return &identityService{
		principalRepo:  params.PrincipalRepo,
		credentialRepo: params.CredentialRepo,
		sessionRepo:    params.SessionRepo,
		hasher:         params.Hasher,
		creator: &principalCreator{
			txManager: params.TxManager,
			hasher:    params.Hasher,
			clock:     params.Clock,
		},
		validate:  newValidator(),
		decoyHash: newDecoyHash(params.Hasher),
		latency:   latency,
		logger:    params.Logger,
	}
}

// decoyPassword is hashed once, on the first unknown email.
const decoyPassword = "storerating-decoy-credential"

func newDecoyHash(hasher service.PasswordHasher) func() string {
	return sync.OnceValue(func() string {
		hash, err := hasher.Hash(decoyPassword)
		if err != nil {
			return ""
		}

		return hash
	})
}

// rejectLogin pays for one hash comparison, as a wrong password does.
func (srv *identityService) rejectLogin(password string) error {
	srv.hasher.Check(password, srv.decoyHash())

	return domainerrors.ErrAuthentication
}

func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// roundTrip blocks for the configured latency. It ignores ctx: an issued call always resolves.
func (srv *identityService) roundTrip() {
	if srv.latency > 0 {
		time.Sleep(srv.latency)
	}
}

// Login verifies the email/password pair and makes the principal active.
func (srv *identityService) Login(ctx context.Context, input usecase.LoginInput) (*entity.Principal, error) {
	srv.roundTrip()

	principal, err := srv.principalRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrPrincipalNotFound) {
		return nil, srv.rejectLogin(input.Password)
	}
	if err != nil {
		return nil, storageError(err, "failed to find principal by email")
	}

	credential, err := srv.credentialRepo.FindByPrincipalID(ctx, principal.ID)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, srv.rejectLogin(input.Password)
	}
	if err != nil {
		return nil, storageError(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		return nil, domainerrors.ErrAuthentication
	}

	if err := srv.activate(ctx, principal); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Principal logged in", slog.Any("principalID", principal.ID), slog.Any("role", principal.Role))

	return principal.Clone(), nil
}

// Register signs up a new customer and makes it active.
func (srv *identityService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Principal, error) {
	srv.roundTrip()

	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	principal := &entity.Principal{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		Role:    entity.RoleCustomer,
	}
	if err := srv.creator.create(ctx, principal, input.Password); err != nil {
		return nil, errors.Wrap(err, "failed to register principal")
	}

	if err := srv.activate(ctx, principal); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Principal registered", slog.Any("principalID", principal.ID))

	return principal.Clone(), nil
}

// activate persists the snapshot first, so a storage failure leaves the session unchanged.
func (srv *identityService) activate(ctx context.Context, principal *entity.Principal) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.sessionRepo.Save(ctx, principal); err != nil {
		return storageError(err, "failed to persist session")
	}
	srv.active = principal.Clone()

	return nil
}

// RestoreSession returns the active principal or the one recorded in the session cell.
func (srv *identityService) RestoreSession(ctx context.Context) *entity.Principal {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.active != nil {
		return srv.active.Clone()
	}

	principal, err := srv.sessionRepo.Load(ctx)
	if err == nil {
		srv.active = principal
		srv.log(ctx).Debug("Session restored", slog.Any("principalID", principal.ID))

		return principal.Clone()
	}

	if errors.Is(err, repository.ErrSessionCorrupt) {
		srv.log(ctx).Debug("Discarding unreadable session record", slog.Any("error", err))
		if clearErr := srv.sessionRepo.Clear(ctx); clearErr != nil {
			srv.log(ctx).Warn("Failed to clear unreadable session record", slog.Any("error", clearErr))
		}
	}

	return nil
}

// Logout drops the active session in memory and in storage.
func (srv *identityService) Logout(ctx context.Context) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.active = nil
	if err := srv.sessionRepo.Clear(ctx); err != nil {
		srv.log(ctx).Warn("Failed to clear session record", slog.Any("error", err))
	}
}

// ChangeCredential replaces the password of the active principal.
func (srv *identityService) ChangeCredential(ctx context.Context, input usecase.ChangeCredentialInput) error {
	srv.roundTrip()

	active := srv.Current()
	if active == nil {
		return domainerrors.ErrAuthentication
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	credential := &entity.Credential{
		PrincipalID:  active.ID,
		PasswordHash: hash,
		UpdatedAt:    srv.creator.clock.Now(),
	}
	if err := srv.credentialRepo.Save(ctx, credential); err != nil {
		if errors.Is(err, repository.ErrPrincipalNotFound) {
			return domainerrors.ErrNotFound.WithDetails("principal no longer exists")
		}

		return storageError(err, "failed to save credential")
	}

	srv.log(ctx).Debug("Credential changed", slog.Any("principalID", active.ID))

	return nil
}

func (srv *identityService) Current() *entity.Principal {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.active.Clone()
}

func (srv *identityService) State() entity.SessionState {
	if srv.Current() == nil {
		return entity.SessionAnonymous
	}

	return entity.SessionAuthenticated
}

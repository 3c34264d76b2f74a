package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/odonto-agenda/auth-api/config"
	natsadapter "github.com/odonto-agenda/auth-api/internal/adapters/nats"
	repo "github.com/odonto-agenda/auth-api/internal/adapters/postgres"
	"github.com/odonto-agenda/auth-api/internal/adapters/supabase"
	"github.com/odonto-agenda/auth-api/internal/domain"
	"github.com/odonto-agenda/auth-api/internal/metrics"
	"github.com/odonto-agenda/auth-api/internal/saga"
	"github.com/odonto-agenda/auth-api/internal/tokenverify"
	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

type Service interface {
	Register(ctx context.Context, traceID string, in SignupInput) (*Registration, error)
	Login(ctx context.Context, traceID, email, password string) (*LoginResult, error)
	GetProfile(ctx context.Context, traceID string, profileID int64) (*domain.Profile, error)
	VerifyToken(ctx context.Context, traceID, token string) (*VerificationResult, error)
}

type Registration struct {
	ProfileID  int64  `json:"id"`
	IdentityID string `json:"authId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

type LoginResult struct {
	Identity *domain.Identity
	Profile  *domain.Profile
	Token    string
}

type VerificationResult = tokenverify.Result

type authService struct {
	cfg        *config.Config
	logger     pkglog.Logger
	profiles   repo.ProfileRepository
	identities supabase.Client
	events     natsadapter.EventPublisher
	hasher     PasswordHasher
	signer     TokenSigner
	metrics    metrics.Recorder
	now        func() time.Time
}

func NewAuthService(cfg *config.Config, logger pkglog.Logger, profiles repo.ProfileRepository, identities supabase.Client, events natsadapter.EventPublisher, hasher PasswordHasher, signer TokenSigner, recorder metrics.Recorder) Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &authService{cfg: cfg, logger: logger, profiles: profiles, identities: identities, events: events, hasher: hasher, signer: signer, metrics: recorder, now: time.Now}
}

// Register creates the provider identity and then the profile row. A failed
// profile insert deletes the identity again; the delete is best-effort.
func (s *authService) Register(ctx context.Context, traceID string, in SignupInput) (*Registration, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := ValidateSignup(in); err != nil {
		s.metrics.RecordRegistration("invalid")
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	log := s.logger.With().Str("trace_id", traceID).Str("email", in.Email).Logger()

	var identity *domain.Identity
	profile := &domain.Profile{}
	err := saga.Run(ctx, log,
		saga.Step{
			Name: "criar_identidade",
			Do: func(ctx context.Context) error {
				created, err := s.identities.CreateIdentity(ctx, in.Email, in.Password, s.cfg.DefaultRole)
				if err != nil {
					return newError(ErrIdentityCreationFailed, providerMessage(err), err)
				}
				identity = created
				log.Info().Str("identity_id", created.ID).Msg("identity created")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if err := s.identities.DeleteIdentity(ctx, identity.ID); err != nil {
					s.metrics.RecordCompensation("failed")
					return err
				}
				s.metrics.RecordCompensation("ok")
				return nil
			},
		},
		saga.Step{
			Name: "criar_perfil",
			Do: func(ctx context.Context) error {
				return s.createProfile(ctx, profile, in)
			},
		},
	)
	if err != nil {
		var classified *Error
		if errors.As(err, &classified) {
			s.metrics.RecordRegistration(outcome(classified.Kind))
			return nil, classified
		}
		s.metrics.RecordRegistration("error")
		return nil, err
	}

	if s.events != nil {
		event := natsadapter.ProfileRegistered{ProfileID: profile.ID, IdentityID: identity.ID, Email: profile.Email, Name: profile.Name, Type: profile.AccountType}
		if err := s.events.PublishProfileRegistered(ctx, event); err != nil {
			log.Warn().Err(err).Int64("profile_id", profile.ID).Msg("profile registered event not published")
		}
	}
	s.metrics.RecordRegistration("ok")
	log.Info().Int64("profile_id", profile.ID).Str("identity_id", identity.ID).Msg("signup completed")
	return &Registration{ProfileID: profile.ID, IdentityID: identity.ID, Email: profile.Email, Name: profile.Name}, nil
}

func (s *authService) createProfile(ctx context.Context, profile *domain.Profile, in SignupInput) error {
	birthDate, err := ConvertBirthDate(in.BirthDate)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return newError(ErrHashingFailure, "Erro interno do servidor", err)
	}
	format := domain.CredentialBcrypt
	*profile = domain.Profile{
		Name:             in.Name,
		Email:            in.Email,
		Credential:       hash,
		CredentialFormat: &format,
		NationalID:       in.NationalID,
		BirthDate:        birthDate,
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		AccountType:      domain.DefaultAccountType,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return newError(ErrProfileCreationFailed, repo.Message(err), err)
	}
	return nil
}

// Login checks the local credential, rehashes legacy plaintext, confirms the
// password with the provider and issues a session token.
func (s *authService) Login(ctx context.Context, traceID, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if err := ValidateLogin(email, password); err != nil {
		s.metrics.RecordLogin("invalid")
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	log := s.logger.With().Str("trace_id", traceID).Str("email", email).Logger()

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.metrics.RecordLogin("invalid_credentials")
			log.Info().Msg("login rejected: unknown email")
			return nil, newError(ErrInvalidCredentials, msgInvalidCredentials, nil)
		}
		s.metrics.RecordLogin("error")
		return nil, fmt.Errorf("find profile: %w", err)
	}

	legacy := isLegacyCredential(s.hasher, profile)
	var matched bool
	if legacy {
		matched = subtle.ConstantTimeCompare([]byte(profile.Credential), []byte(password)) == 1
	} else {
		matched, err = s.hasher.Verify(password, profile.Credential)
		if err != nil {
			log.Warn().Err(err).Int64("profile_id", profile.ID).Msg("stored credential is not a valid hash")
			matched = false
		}
	}
	if !matched {
		s.metrics.RecordLogin("invalid_credentials")
		log.Info().Int64("profile_id", profile.ID).Msg("login rejected: wrong password")
		return nil, newError(ErrInvalidCredentials, msgInvalidCredentials, nil)
	}

	if legacy {
		s.migrateCredential(ctx, log, profile, password)
	}

	identity, err := s.identities.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.metrics.RecordLogin("provider_rejected")
		log.Warn().Err(err).Int64("profile_id", profile.ID).Msg("provider sign-in failed after local check passed")
		return nil, newError(ErrAuthentication, msgInvalidCredentials, err)
	}

	token, err := s.signer.IssueToken(profile.ID, profile.Email)
	if err != nil {
		s.metrics.RecordLogin("error")
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.metrics.RecordLogin("ok")
	log.Info().Int64("profile_id", profile.ID).Str("identity_id", identity.ID).Msg("login")
	return &LoginResult{Identity: identity, Profile: profile, Token: token}, nil
}

func (s *authService) migrateCredential(ctx context.Context, log pkglog.Logger, profile *domain.Profile, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.RecordCredentialMigration("failed")
		log.Error().Err(err).Int64("profile_id", profile.ID).Msg("legacy credential not rehashed")
		return
	}
	if err := s.profiles.UpdateCredential(ctx, profile.ID, hash, domain.CredentialBcrypt); err != nil {
		s.metrics.RecordCredentialMigration("failed")
		log.Error().Err(err).Int64("profile_id", profile.ID).Msg("legacy credential not rehashed")
		return
	}
	format := domain.CredentialBcrypt
	profile.Credential = hash
	profile.CredentialFormat = &format
	s.metrics.RecordCredentialMigration("ok")
	log.Info().Int64("profile_id", profile.ID).Msg("legacy credential rehashed")
}

func (s *authService) GetProfile(ctx context.Context, traceID string, profileID int64) (*domain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrProfileNotFound, msgProfileNotFound, err)
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	s.logger.Debug().Str("trace_id", traceID).Int64("profile_id", profileID).Msg("profile read")
	return profile, nil
}

func (s *authService) VerifyToken(ctx context.Context, traceID, token string) (*VerificationResult, error) {
	result, err := tokenverify.Verify(s.signer, token, s.now)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("trace_id", traceID).Int64("profile_id", result.ProfileID).Msg("token verified")
	return result, nil
}

func providerMessage(err error) string {
	var perr *supabase.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return msgIdentityFailed
}

func outcome(kind error) string {
	switch kind {
	case ErrIdentityCreationFailed:
		return "identity_failed"
	case ErrProfileCreationFailed:
		return "profile_failed"
	case ErrDateFormat:
		return "invalid"
	default:
		return "error"
	}
}

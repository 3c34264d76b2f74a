package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/odonto-agenda/auth-api/internal/domain"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile already exists")
)

const uniqueViolation = "23505"

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByID(ctx context.Context, id int64) (*domain.Profile, error)
	UpdateCredential(ctx context.Context, id int64, credential string, format domain.CredentialFormat) error
}

type profileRepo struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepo{db: db} }

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByEmail matches case-insensitively; rows written before signup
// normalized emails keep their original casing.
func (r *profileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepo) FindByID(ctx context.Context, id int64) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepo) UpdateCredential(ctx context.Context, id int64, credential string, format domain.CredentialFormat) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"senha": credential, "formato_senha": string(format)})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Message returns a caller-safe description of a store error.
func Message(err error) string {
	if errors.Is(err, ErrDuplicate) {
		return "Email ou CPF já cadastrado"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}
	return "Não foi possível salvar o perfil"
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

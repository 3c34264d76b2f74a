package domain

import "time"

// CredentialFormat tags how Profile.Credential is stored.
type CredentialFormat string

const (
	CredentialBcrypt          CredentialFormat = "bcrypt"
	CredentialLegacyPlaintext CredentialFormat = "texto_legado"
)

const DefaultAccountType = "paciente"

// Profile is the application-owned user row. It is correlated with an Identity by email only.
type Profile struct {
	ID               int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string            `gorm:"column:nome;not null" json:"name"`
	Email            string            `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Credential       string            `gorm:"column:senha;not null" json:"-"`
	CredentialFormat *CredentialFormat `gorm:"column:formato_senha;type:text" json:"-"`
	NationalID       string            `gorm:"column:cpf;uniqueIndex;not null" json:"nationalId"`
	BirthDate        string            `gorm:"column:data_nascimento;type:varchar(10);not null" json:"birthDate"`
	City             string            `gorm:"column:cidade;not null" json:"city"`
	State            string            `gorm:"column:estado;not null" json:"state"`
	AccountType      string            `gorm:"column:tipo;not null;default:paciente" json:"type"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string { return "usuarios" }

// Identity is the managed auth provider's account record.
type Identity struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	EmailConfirmed bool           `json:"emailConfirmed"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

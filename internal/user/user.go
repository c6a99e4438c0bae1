package user

import (
	"time"

	"github.com/frahmantamala/association-management/internal/auth"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
)

// Profile is a login account as seen by the user management screens.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nome      *string   `json:"nome"`
	Perfil    auth.Role `json:"perfil"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows the profile listing. Search matches email and name.
type Filter struct {
	Search string
	Perfil string
	Limit  int
	Offset int
}

type ListResponse struct {
	Usuarios []*Profile `json:"usuarios"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// MeResponse is the caller's own profile plus the actions it may perform.
type MeResponse struct {
	*Profile
	Permissoes auth.Permissions `json:"permissoes"`
}

func FromDataModel(p *userDatamodel.Profile) *Profile {
	return &Profile{
		ID:        p.ID,
		Email:     p.Email,
		Nome:      p.Nome,
		Perfil:    auth.Role(p.Perfil),
		Ativo:     p.Ativo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p *Profile) identity() *auth.User {
	return &auth.User{ID: p.ID, Email: p.Email, Nome: p.Nome, Role: p.Perfil, Active: p.Ativo}
}

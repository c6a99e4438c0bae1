package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/association-management/internal"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operador"
	RoleViewer   Role = "visualizador"
)

var roleLevels = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// Roles lists every assignable role, highest first.
var Roles = []Role{RoleAdmin, RoleOperator, RoleViewer}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether r sits at or above required in the hierarchy
// admin > operador > visualizador. Unknown roles never qualify.
func (r Role) AtLeast(required Role) bool {
	have, ok := roleLevels[r]
	if !ok {
		return false
	}
	return have >= roleLevels[required]
}

// User is the authenticated profile carried through a request.
type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Nome   *string `json:"nome,omitempty"`
	Role   Role    `json:"perfil"`
	Active bool    `json:"ativo"`
}

func FromDataModel(p *userDatamodel.Profile) *User {
	return &User{
		ID:     p.ID,
		Email:  p.Email,
		Nome:   p.Nome,
		Role:   Role(p.Perfil),
		Active: p.Ativo,
	}
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithUser(ctx context.Context, u *User) context.Context {
	ctx = context.WithValue(ctx, ContextUserKey, u)
	return internal.ContextWithActor(ctx, internal.Actor{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
	})
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

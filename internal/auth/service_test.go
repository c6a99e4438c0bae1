package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/association-management/internal"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository keyed by email and id
type mockUserRepository struct {
	byEmail       map[string]*userDatamodel.Profile
	byID          map[string]*userDatamodel.Profile
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	profiles := []*userDatamodel.Profile{
		{ID: "u-admin", Email: "admin@example.com", Perfil: "admin", Ativo: true, PasswordHash: string(hashedPassword)},
		{ID: "u-operador", Email: "operador@example.com", Perfil: "operador", Ativo: true, PasswordHash: string(hashedPassword)},
		{ID: "u-inativo", Email: "inativo@example.com", Perfil: "operador", Ativo: false, PasswordHash: string(hashedPassword)},
	}

	m := &mockUserRepository{
		byEmail: map[string]*userDatamodel.Profile{},
		byID:    map[string]*userDatamodel.Profile{},
	}
	for _, p := range profiles {
		m.byEmail[p.Email] = p
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*userDatamodel.Profile, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, errors.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*userDatamodel.Profile, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, errors.ErrUserNotFound
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			24*time.Hour,
		)
		service = NewService(mockRepo, tokenGen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens with the profile", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "Admin@Example.com ", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
				gomega.Expect(tokens.ExpiresIn).To(gomega.Equal(int64(900)))
				gomega.Expect(tokens.User.Role).To(gomega.Equal(RoleAdmin))
			})

			ginkgo.It("should generate an access token carrying the user id", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "operador@example.com", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("u-operador"))
				gomega.Expect(claims.Email).To(gomega.Equal("operador@example.com"))
				gomega.Expect(claims.TokenType).To(gomega.Equal(TokenTypeAccess))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return invalid credentials for an unknown email", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "ghost@example.com", Password: "x"})

				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return invalid credentials for a wrong password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "wrong_password"})
				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
				gomega.Expect(errors.TranslateError(err)).To(gomega.Equal("Email ou senha incorretos"))
			})

			ginkgo.It("should refuse inactive users", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "inativo@example.com", Password: "correct_password"})
				gomega.Expect(err).To(gomega.Equal(errors.ErrUserInactive))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should reject an empty email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Password: "password"})

				appErr, ok := errors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))
			})

			ginkgo.It("should reject an empty password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com"})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password"))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		var refreshToken string

		ginkgo.BeforeEach(func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			refreshToken = tokens.RefreshToken
		})

		ginkgo.It("should issue new tokens for a valid refresh token", func() {
			tokens, err := service.RefreshTokens(ctx, refreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("u-admin"))
		})

		ginkgo.It("should not accept an access token as refresh token", func() {
			tokens, _ := service.Authenticate(ctx, LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			_, err := service.RefreshTokens(ctx, tokens.AccessToken)
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})

		ginkgo.It("should refuse to refresh once the profile is deactivated", func() {
			mockRepo.byID["u-admin"].Ativo = false
			_, err := service.RefreshTokens(ctx, refreshToken)
			gomega.Expect(err).To(gomega.Equal(errors.ErrUserInactive))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})

		ginkgo.It("should report expiry", func() {
			expired := NewJWTTokenGenerator(
				"test-access-secret-0123456789abcdef",
				"test-refresh-secret-0123456789abcdef",
				-time.Minute,
				time.Hour,
			)
			expired.AccessTokenTTL = -time.Minute
			token, err := expired.GenerateAccessToken("u-admin", "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = tokenGen.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(errors.ErrTokenExpired))
		})

		ginkgo.It("should reject tokens signed with another secret", func() {
			other := NewJWTTokenGenerator("another-secret-0123456789abcdefghij", "another-refresh-0123456789abcdefghij", 0, 0)
			token, _ := other.GenerateAccessToken("u-admin", "admin@example.com")
			_, err := tokenGen.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})
	})
})

var _ = ginkgo.Describe("Permission matrix", func() {
	checker := NewPermissionChecker()
	user := func(role Role) *User { return &User{ID: "x", Role: role, Active: true} }

	ginkgo.DescribeTable("capabilities per role",
		func(u *User, expected Permissions) {
			gomega.Expect(PermissionsFor(checker, u)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("admin", user(RoleAdmin), Permissions{true, true, true, true, true, true}),
		ginkgo.Entry("operador", user(RoleOperator), Permissions{CanRead: true, CanCreate: true, CanEdit: true, CanExport: true}),
		ginkgo.Entry("visualizador", user(RoleViewer), Permissions{CanRead: true}),
		ginkgo.Entry("unknown role", user(Role("gerente")), Permissions{}),
		ginkgo.Entry("missing profile", nil, Permissions{}),
		ginkgo.Entry("inactive admin", &User{ID: "x", Role: RoleAdmin}, Permissions{}),
	)
})

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var rbac *RBACAuthorization

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(NewPermissionChecker(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	serve := func(mw func(http.Handler) http.Handler, u *User) int {
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		req := httptest.NewRequest(http.MethodDelete, "/funcionarios/1", nil)
		if u != nil {
			req = req.WithContext(ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	ginkgo.It("should return 401 without a user", func() {
		gomega.Expect(serve(rbac.RequireViewer(), nil)).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should return 403 for an operador on an admin route", func() {
		gomega.Expect(serve(rbac.RequireAdmin(), &User{ID: "1", Role: RoleOperator, Active: true})).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should let an admin through an operador route", func() {
		gomega.Expect(serve(rbac.RequireOperator(), &User{ID: "1", Role: RoleAdmin, Active: true})).To(gomega.Equal(http.StatusOK))
	})
})

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/association-management/internal"
)

type RBACAuthorization struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		checker: checker,
		logger:  logger,
	}
}

// RequireRole rejects requests whose user is missing (401) or sits below
// required in the role hierarchy (403).
func (ra *RBACAuthorization) RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: user not found in context")
				writeAppError(w, errors.ErrInvalidToken)
				return
			}

			if !ra.checker.HasRole(user, required) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", user.ID,
					"role", user.Role,
					"required_role", required)
				writeAppError(w, errors.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireViewer() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleViewer)
}

// RequireOperator guards create, edit and export actions.
func (ra *RBACAuthorization) RequireOperator() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleOperator)
}

// RequireAdmin guards deletes and user management.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleAdmin)
}

func writeAppError(w http.ResponseWriter, appErr *errors.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

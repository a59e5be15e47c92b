package middleware

import (
	"context"
	"net/http"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

type contextKey string

const (
	// ContextKeySubject is the key for storing the caller identity in
	// request context.
	ContextKeySubject contextKey = "subject"

	// SubjectHeader carries the pre-validated caller identity set by the
	// upstream gateway. Authentication happens there; the service trusts
	// this attribute without re-verification.
	SubjectHeader = "X-User-ID"
)

// IdentityMiddleware extracts the gateway-supplied caller identity.
type IdentityMiddleware struct{}

// NewIdentityMiddleware creates a new IdentityMiddleware.
func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

// Resolve requires the identity header and adds the subject to the request
// context. A request without it never reached the gateway and is rejected.
func (m *IdentityMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := r.Header.Get(SubjectHeader)
		if subject == "" {
			http.Error(w, "missing caller identity", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySubject, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSubjectFromContext retrieves the caller identity from request context.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	if !ok || subject == "" {
		return "", domain.ErrMissingIdentity
	}
	return subject, nil
}

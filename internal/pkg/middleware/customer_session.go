package middleware

import (
	"net/http"
	"strings"

	"github.com/sahmwel/sahmticket-sub000/internal/pkg/jwt"
	"github.com/sahmwel/sahmticket-sub000/internal/pkg/session"
	"github.com/sahmwel/sahmticket-sub000/pkg/response"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type CustomerSession struct {
	jsonWebToken *jwt.JSONWebToken
	store        session.Store
}

func NewCustomerSessionMiddleware(jsonWebToken *jwt.JSONWebToken, store session.Store) *CustomerSession {
	return &CustomerSession{
		jsonWebToken: jsonWebToken,
		store:        store,
	}
}

// Verify authenticates the bearer token and loads the customer's session
// account onto the request context.
func (m *CustomerSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authorization, "Bearer ")
		if token == "" || token == authorization {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := m.jsonWebToken.Parse(token)
		if err != nil {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "invalid bearer token",
			})
			return
		}

		sessionID, _ := claims["sub"].(string)

		account, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "session has expired",
			})
			return
		}

		ctx := session.SetAccountToCtx(r.Context(), account)
		next(w, r.WithContext(ctx))
	}
}

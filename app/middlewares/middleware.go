package middlewares

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
)

type contextKey string

const (
	ContextKeyUser   contextKey = "userObject"
	ContextKeyUserID contextKey = "userID"
)

// TelegramAuthMiddleware validates the Mini App init data sent by the
// frontend and resolves it to a local user, creating one on first contact.
func TelegramAuthMiddleware(telegram services.TelegramClient, userRepo repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initData := r.Header.Get("X-Telegram-Init-Data")
			if initData == "" {
				http.Error(w, "missing telegram init data", http.StatusUnauthorized)
				return
			}

			tgUser, err := telegram.ValidateInitData(initData)
			if err != nil {
				log.Printf("TelegramAuthMiddleware: init data rejected: %v", err)
				http.Error(w, "invalid telegram init data", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.FindOrCreateByTelegramID(r.Context(), &models.User{
				TelegramID:   tgUser.ID,
				FirstName:    tgUser.FirstName,
				LastName:     tgUser.LastName,
				Username:     tgUser.Username,
				LanguageCode: tgUser.LanguageCode,
				PhotoURL:     tgUser.PhotoURL,
				Role:         models.RoleCustomer,
			})
			if err != nil {
				log.Printf("TelegramAuthMiddleware: failed to resolve user %d: %v", tgUser.ID, err)
				http.Error(w, "failed to resolve user", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyUserID, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminTokenMiddleware gates operator endpoints behind a static bearer
// token from the environment.
func AdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, "admin endpoints are disabled", http.StatusForbidden)
				return
			}
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user set by the auth middleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(ContextKeyUser).(*models.User)
	return user
}

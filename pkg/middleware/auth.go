package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

// ContextKey 用于在context中存储用户信息的键
type ContextKey string

const (
	UserContextKey ContextKey = "user"
)

// bearerToken returns the token of an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
		return "", false
	}
	return strings.TrimSpace(tokenString), true
}

func withUser(r *http.Request, claims *models.TokenClaims) *http.Request {
	user := &models.User{ID: claims.UserID, Email: claims.Email}
	return r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
}

// AuthMiddleware JWT认证中间件，缺少或无效的 token 返回 401
func AuthMiddleware(jwtSvc *utils.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := hlog.FromRequest(r)

			tokenString, ok := bearerToken(r)
			if !ok {
				log.Debug().Str("path", r.URL.Path).Msg("❌ Auth middleware: missing or malformed authorization header")
				utils.WriteUnauthorizedResponse(w, "Missing authorization header")
				return
			}

			claims, err := jwtSvc.ValidateToken(tokenString)
			if err != nil {
				log.Debug().Err(err).Msg("❌ Auth middleware: token rejected")
				utils.WriteUnauthorizedResponse(w, "Invalid token")
				return
			}

			log.Debug().Int64("user_id", claims.UserID).Msg("✅ Auth middleware: authenticated")
			next.ServeHTTP(w, withUser(r, claims))
		})
	}
}

// OptionalAuthMiddleware 可选的认证中间件（不强制要求认证）
func OptionalAuthMiddleware(jwtSvc *utils.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString, ok := bearerToken(r); ok {
				if claims, err := jwtSvc.ValidateToken(tokenString); err == nil {
					next.ServeHTTP(w, withUser(r, claims))
					return
				}
				hlog.FromRequest(r).Debug().Msg("⚠️ Auth middleware: ignoring invalid token on optional route")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteAuth 读请求总是可选认证；REQUIRE_AUTH 打开时写请求必须携带有效 token
func WriteAuth(cfg *config.Config, jwtSvc *utils.JWTService) func(http.Handler) http.Handler {
	strict := AuthMiddleware(jwtSvc)
	optional := OptionalAuthMiddleware(jwtSvc)
	return func(next http.Handler) http.Handler {
		strictNext := strict(next)
		optionalNext := optional(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.RequireAuth && isWrite(r.Method) {
				strictNext.ServeHTTP(w, r)
				return
			}
			optionalNext.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// GetUserFromContext 从context中获取用户信息
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// CallerID returns the authenticated user id, or 0 for anonymous requests.
func CallerID(ctx context.Context) int64 {
	if user, ok := GetUserFromContext(ctx); ok {
		return user.ID
	}
	return 0
}

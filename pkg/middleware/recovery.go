package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/hlog"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/utils"
)

// Recovery 恢复中间件，处理panic并返回统一的错误信封
func Recovery(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				hlog.FromRequest(r).Error().
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("❌ PANIC")

				message := "Internal server error occurred"
				if cfg.IsDevelopment() {
					message = fmt.Sprintf("Internal server error: %v", rec)
				}
				utils.WriteInternalServerErrorResponse(w, message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-Id"

// Logger 请求日志中间件：把 logger 放入 request context 并记录访问日志
//
// handlers 和下游服务通过 zerolog.Ctx(ctx) 取得带 req_id 的 logger。
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		ev := hlog.FromRequest(r).Info()
		switch {
		case status >= 500:
			ev = hlog.FromRequest(r).Error()
		case status >= 400:
			ev = hlog.FromRequest(r).Warn()
		}
		if id := CallerID(r.Context()); id > 0 {
			ev = ev.Int64("user_id", id)
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg(statusEmoji(status) + " request")
	})

	return func(next http.Handler) http.Handler {
		h := access(next)
		h = hlog.UserAgentHandler("user_agent")(h)
		h = hlog.RemoteAddrHandler("ip")(h)
		h = hlog.RequestIDHandler("req_id", RequestIDHeader)(h)
		return hlog.NewHandler(log)(h)
	}
}

func statusEmoji(status int) string {
	switch {
	case status >= 500:
		return "❌"
	case status >= 400:
		return "⚠️"
	default:
		return "✅"
	}
}

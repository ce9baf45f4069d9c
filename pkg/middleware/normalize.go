package middleware

import (
	"net/http"
	"strings"
)

// Normalize 统一经过代理（Vercel/Cloudflare）转发的请求
//   - 去掉路径两端空白与多余的结尾斜杠，使 /api/content/ 与 /api/content 命中同一路由
//   - 从转发头恢复 scheme/host
func Normalize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := strings.TrimSpace(r.URL.Path)
			if len(p) > 1 && !strings.HasPrefix(p, "/uploads/") {
				p = strings.TrimRight(p, "/")
				if p == "" {
					p = "/"
				}
			}
			r.URL.Path = p
			r.URL.RawPath = ""

			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
				r.URL.Scheme = proto
			}
			if host := r.Header.Get("X-Forwarded-Host"); host != "" {
				r.Host = host
			}
			next.ServeHTTP(w, r)
		})
	}
}

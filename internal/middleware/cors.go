package middleware

import (
	"github.com/valyala/fasthttp"
)

// CORS restricts cross-origin access to an allow-listed set of origins
// with credentials enabled. Requests from unlisted origins get no CORS
// headers, so the browser blocks them.
func CORS(allowedOrigins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			// Vary is set on every response, allow-listed or not, so a
			// shared cache never replays one origin's response to another.
			ctx.Response.Header.Set("Vary", "Origin")

			origin := string(ctx.Request.Header.Peek("Origin"))
			if _, ok := allowed[origin]; ok {
				ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
				ctx.Response.Header.Set("Access-Control-Allow-Credentials", "true")
			}

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				ctx.Response.Header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}

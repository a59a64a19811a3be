package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/policy"
)

type authMiddleware struct {
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func newAuthMiddleware(tokens *auth.TokenManager) authMiddleware {
	return authMiddleware{
		tokens: tokens,
		logger: log.With().Str("handlerName", "authMiddleware").Logger(),
	}
}

// identify resolves the actor from the session cookie or a bearer token.
// It never rejects a request: a missing or bad token means anonymous.
func (m authMiddleware) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := policy.Actor{Kind: policy.Anonymous}

		if token := requestToken(r); token != "" {
			claims, err := m.tokens.Parse(token)
			if err != nil {
				m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("ignoring invalid token")
			} else if resolved, err := claims.Actor(); err != nil {
				m.logger.Debug().Err(err).Msg("ignoring token with bad subject")
			} else {
				actor = resolved
			}
		}

		next.ServeHTTP(w, r.WithContext(ctxWithActor(r.Context(), actor)))
	})
}

func requestToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// httpLoggingMiddleware logs every request. The console format colors output
// for development; any other format writes JSON through the global logger.
func httpLoggingMiddleware(format string) func(http.Handler) http.Handler {
	requestLogger := log.Logger
	if format == "console" {
		requestLogger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(log.Logger.GetLevel()).With().Timestamp().Logger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = requestLogger.Error()
			case srw.status >= 400:
				logEvent = requestLogger.Warn()
			default:
				logEvent = requestLogger.Info()
			}

			logEvent.
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}

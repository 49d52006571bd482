package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":true,"code":"TIMEOUT","message":"request timeout"}`

// Timeout bounds the whole request. The handler's context is cancelled when the deadline passes.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}

package api

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const memberIDKey contextKey = "member_id"

// MemberAuthMiddleware resolves the calling member from the X-Member-ID
// header (stand-in for real JWT validation).
func MemberAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID, err := strconv.ParseInt(r.Header.Get("X-Member-ID"), 10, 64)
		if err != nil || memberID <= 0 {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid X-Member-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), memberIDKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func memberIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(memberIDKey).(int64)
	return id
}

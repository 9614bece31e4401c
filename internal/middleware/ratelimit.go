package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"zpcs/internal/domain"
)

// RateLimit allows limit requests per client in each window of length per.
// Rejected requests get a QUOTA_EXCEEDED body with the seconds until the
// window resets.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	windows := cache.New(per, 2*per)
	var mu sync.Mutex
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			mu.Lock()
			count := 1
			if err := windows.Add(key, count, per); err != nil {
				count, err = windows.IncrementInt(key, 1)
				if err != nil {
					// The window expired between Add and IncrementInt.
					count = 1
					windows.Set(key, count, per)
				}
			}
			_, until, _ := windows.GetWithExpiration(key)
			mu.Unlock()

			if count > limit {
				writeQuotaExceeded(w, time.Until(until))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeQuotaExceeded(w http.ResponseWriter, wait time.Duration) {
	retry := int(math.Ceil(wait.Seconds()))
	if retry < 1 {
		retry = 1
	}
	body := domain.ErrorBody{
		Error:             domain.CodeQuotaExceeded,
		Message:           fmt.Sprintf("Rate limit exceeded, retry in %d seconds", retry),
		Timestamp:         domain.NewTimestamp(time.Now()),
		RetryAfterSeconds: &retry,
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}

func clientKey(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}

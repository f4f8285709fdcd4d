package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"salty-fish/pkg/utils"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"go.uber.org/zap"
)

// ipLookups picks where the client IP comes from. Forwarding headers are
// client-controlled unless a proxy in front of us overwrites them.
func ipLookups(trustProxy bool) []string {
	if trustProxy {
		return []string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"}
	}
	return []string{"RemoteAddr"}
}

// RateLimit throttles a route per client IP to perSecond requests, with a
// burst of one. Rejected requests get 429 in the usual envelope.
func RateLimit(perSecond float64, trustProxy bool, logger *zap.Logger) func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetBurst(1)
	lmt.SetIPLookups(ipLookups(trustProxy))

	body, _ := json.Marshal(utils.Response{
		Status:  utils.StatusFail,
		Message: "Too many requests. Please try again later.",
	})
	lmt.SetMessage(string(body))
	lmt.SetMessageContentType("application/json")
	lmt.SetOnLimitReached(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("Rate limit reached",
			zap.String("path", r.URL.Path),
			zap.String("ip", r.RemoteAddr))
	})

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}

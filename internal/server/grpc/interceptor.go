package grpc

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the id of the authenticated caller.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	fullMethod("Ping"):         true,
	fullMethod("SignUp"):       true,
	fullMethod("SignIn"):       true,
	fullMethod("RefreshToken"): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	// other services on this server (health) are open
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") || publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := s.svc.Auth.Authenticate(accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, info.FullMethod, err)
	}

	ctx = context.WithValue(ctx, userIDKey, userID)
	return handler(ctx, req)
}

// rateLimiter keeps one token bucket per peer host; idle buckets expire.
type rateLimiter struct {
	mu       sync.Mutex
	cache    *expirable.LRU[string, *rate.Limiter]
	interval time.Duration
	burst    int
}

const (
	limiterTableSize = 4096
	limiterTTL       = 10 * time.Minute
)

func newRateLimiter(interval time.Duration, burst int) *rateLimiter {
	return &rateLimiter{
		cache:    expirable.NewLRU[string, *rate.Limiter](limiterTableSize, nil, limiterTTL),
		interval: interval,
		burst:    burst,
	}
}

func (r *rateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.cache.Get(key)
	if !exists {
		limiter = rate.NewLimiter(rate.Every(r.interval), r.burst)
		r.cache.Add(key, limiter)
	}
	return limiter
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter != nil && !s.limiter.get(peerKey(ctx)).Allow() {
		metrics.RateLimited.Inc()
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}
	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	metrics.RPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	metrics.RPCDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	return resp, err
}

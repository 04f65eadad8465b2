package routes

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/middleware"
)

type Middleware = func(http.Handler) http.Handler

type routeHandler struct {
	pattern string
	handler http.Handler
}

// Register adds every API route to srv. Post mutations are wrapped in
// middleware.RequireAuth; loginLimit, when non-nil, wraps the login route.
// Each handler is traced under its route pattern.
func (r *Route) Register(srv interfaces.Server, loginLimit Middleware) error {
	requireAuth := middleware.RequireAuth(r.TokenManager, r.Logger, func() {
		r.incCounter(metrics.AuthFailuresTotal)
	})

	login := Middleware(func(h http.Handler) http.Handler { return h })
	if loginLimit != nil {
		login = loginLimit
	}

	handlers := []routeHandler{
		{RootRouteAPI, http.HandlerFunc(r.Root)},
		{HealthRouteAPI, http.HandlerFunc(r.Health)},
		{SignupRouteAPI, http.HandlerFunc(r.Signup)},
		{LoginRouteAPI, login(http.HandlerFunc(r.Login))},
		{ListPostsAPI, http.HandlerFunc(r.ListPosts)},
		{GetPostAPI, http.HandlerFunc(r.GetPost)},
		{CreatePostAPI, requireAuth(http.HandlerFunc(r.CreatePost))},
		{UpdatePostAPI, requireAuth(http.HandlerFunc(r.UpdatePost))},
		{DeletePostAPI, requireAuth(http.HandlerFunc(r.DeletePost))},
	}
	if r.Metrics != nil {
		handlers = append(handlers, routeHandler{
			MetricsRouteAPI, promhttp.HandlerFor(r.Metrics.GetRegistry(), promhttp.HandlerOpts{}),
		})
	}

	for _, h := range handlers {
		traced := otelhttp.NewHandler(h.handler, h.pattern)
		if err := srv.AddRoute(h.pattern, traced.ServeHTTP); err != nil {
			return fmt.Errorf("failed to add route %s: %w", h.pattern, err)
		}
	}
	return nil
}

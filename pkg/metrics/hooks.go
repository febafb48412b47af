package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/distortviz/pkg/observability"
)

type viewHooks struct{ r *Registry }

func (h viewHooks) OnGraphLoaded(_ context.Context, slot string, nodes, _ int, _ time.Duration, err error) {
	if err != nil {
		h.r.GraphLoadsTotal.WithLabelValues(slot, "error").Inc()
		return
	}
	h.r.GraphLoadsTotal.WithLabelValues(slot, "ok").Inc()
	h.r.GraphNodes.WithLabelValues(slot).Set(float64(nodes))
}

func (h viewHooks) OnLayoutComplete(_ context.Context, slot string, ticks int, d time.Duration, _ error) {
	h.r.LayoutTicks.WithLabelValues(slot).Observe(float64(ticks))
	h.r.LayoutDuration.WithLabelValues(slot).Observe(d.Seconds())
}

func (h viewHooks) OnDistortion(_ context.Context, redraw, stale bool, _ time.Duration, err error) {
	outcome := "recolor"
	switch {
	case err != nil:
		outcome = "error"
	case stale:
		outcome = "stale"
	case redraw:
		outcome = "redraw"
	}
	h.r.DistortionRunsTotal.WithLabelValues(outcome).Inc()
}

type cacheHooks struct{ r *Registry }

func (h cacheHooks) OnCacheHit(_ context.Context, kind string) {
	h.r.CacheOperationsTotal.WithLabelValues(kind, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, kind string) {
	h.r.CacheOperationsTotal.WithLabelValues(kind, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.r.CacheOperationsTotal.WithLabelValues(kind, "set").Inc()
}

type httpHooks struct{ r *Registry }

func (httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.r.ServiceRequestsTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.r.ServiceRequestDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.r.ServiceErrorsTotal.WithLabelValues(host).Inc()
}

var (
	_ observability.ViewHooks  = viewHooks{}
	_ observability.CacheHooks = cacheHooks{}
	_ observability.HTTPHooks  = httpHooks{}
)

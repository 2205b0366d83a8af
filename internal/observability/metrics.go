// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// PageCacheResults counts rendered page cache lookups by result (hit, miss, error).
	PageCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_total",
		Help: "Rendered page cache lookups by result",
	}, []string{"result"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts published",
	})

	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Total number of comments added",
	})

	// FollowChanges counts follow graph mutations by action (follow, unfollow).
	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_changes_total",
		Help: "Follow graph changes by action",
	}, []string{"action"})

	Signups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_signups_total",
		Help: "Total number of accounts created",
	})
)

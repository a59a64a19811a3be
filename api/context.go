package api

import (
	"context"

	"github.com/rpupo63/portfolio-site/policy"
)

type keyType string

const (
	actorKey keyType = "actor"
)

// ctxWithActor adds the resolved actor to the context
func ctxWithActor(ctx context.Context, actor policy.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// actorFromCtx returns the actor set by the identify middleware, or the anonymous actor
func actorFromCtx(ctx context.Context) policy.Actor {
	if actor, ok := ctx.Value(actorKey).(policy.Actor); ok {
		return actor
	}
	return policy.Actor{Kind: policy.Anonymous}
}

package main

import (
	"context"

	"github.com/sre-norns/waymark/pkg/server"
)

type ServeCmd struct {
	server.Config `embed:""`
}

func (c *ServeCmd) Run(ctx context.Context) error {
	return server.Run(ctx, c.Config)
}

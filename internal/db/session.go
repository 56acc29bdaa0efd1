package db

import (
	"context"
	"fmt"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// OpenSession connects through connector and acquires the connection all of
// the command's statements run on. The caller must Close the session.
func OpenSession(ctx context.Context, connector sparkify.Connector) (*sparkify.Session, error) {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: acquire connection: %v", sparkify.ErrConnectionFailed, err)
	}

	return sparkify.NewSession(pool, conn), nil
}

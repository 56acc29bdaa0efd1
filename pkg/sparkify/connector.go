package sparkify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector opens a pool to the database named in its ConnectionConfig.
// Implementations differ only in how they authenticate: password, AWS RDS
// token, Azure Entra ID token or the Cloud SQL dialer.
type Connector interface {
	// Connect returns a pinged pool. The caller closes it.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

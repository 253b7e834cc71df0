package db

import (
	"context"
	"database/sql"
	"time"
)

// ReadyProbe checks that the database answers.
type ReadyProbe struct {
	DB      *sql.DB
	Timeout time.Duration
}

// Check pings the database within the probe timeout.
func (p ReadyProbe) Check(ctx context.Context) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.DB.PingContext(ctx)
}

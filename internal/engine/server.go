// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"github.com/dolthub/go-mysql-server/server"
)

// Serve listens on addr speaking the MySQL protocol and blocks until
// the listener is closed. Connections are unauthenticated, so the
// address should stay on the loopback interface unless the network is
// trusted.
func Serve(e *Engine, addr string) error {
	cfg := server.Config{
		Protocol: "tcp",
		Address:  addr,
	}
	s, err := server.NewDefaultServer(cfg, e.Engine)
	if err != nil {
		return err
	}
	return s.Start()
}

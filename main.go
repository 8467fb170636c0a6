// Package main is the entry point for the StripeQL application.
// It exposes Stripe objects as relational tables: scan, serve, sync.
package main

import (
	"stripeql/cli/cmd"
)

// main is the entry point for the StripeQL application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}

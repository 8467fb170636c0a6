// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Verbose reports whether diagnostic output was requested via the
// STRIPEQL_VERBOSE environment variable.
func Verbose() bool {
	return os.Getenv("STRIPEQL_VERBOSE") != ""
}

// Debugf prints a masked diagnostic line to stderr when verbose mode is on.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintln(os.Stderr, Mask(fmt.Sprintf(format, args...)))
}

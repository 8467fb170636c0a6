// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// APIErrorType represents the category of an upstream API failure.
type APIErrorType int

const (
	APIErrorUnknown APIErrorType = iota
	APIErrorNetwork
	APIErrorAuth
	APIErrorRateLimited
	APIErrorTimeout
	APIErrorUnavailable
)

// ParseAPIError categorizes an upstream API error message.
func ParseAPIError(errMsg string) APIErrorType {
	lower := strings.ToLower(errMsg)

	// Check for specific error patterns
	if strings.Contains(lower, "connection reset") || strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") {
		return APIErrorNetwork
	}
	if strings.Contains(lower, "429") || strings.Contains(lower, "rate limit") {
		return APIErrorRateLimited
	}
	if strings.Contains(lower, "502") || strings.Contains(lower, "503") ||
		strings.Contains(lower, "unavailable") {
		return APIErrorUnavailable
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return APIErrorTimeout
	}
	if strings.Contains(lower, "401") || strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "unauthorized") {
		return APIErrorAuth
	}

	return APIErrorUnknown
}

// FormatAPIError formats an upstream API failure in a user-friendly way.
func FormatAPIError(errMsg string) string {
	errType := ParseAPIError(errMsg)

	var builder strings.Builder

	// Title
	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Stripe Request Failed"))
	builder.WriteString("\n\n")

	// User-friendly description
	switch errType {
	case APIErrorNetwork:
		builder.WriteString("The connection to the Stripe API was interrupted.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • Your internet connection was disrupted\n")
		builder.WriteString("  • A firewall or proxy closed the connection\n")
		builder.WriteString("  • DNS resolution failed for the API host\n")

	case APIErrorRateLimited:
		builder.WriteString("Stripe rate-limited the request.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • Too many scans are running at once\n")
		builder.WriteString("  • Another integration is consuming the same account's quota\n")

	case APIErrorUnavailable:
		builder.WriteString("The Stripe API is currently unavailable.\n")
		builder.WriteString("Possible reasons:\n")
		builder.WriteString("  • A temporary Stripe outage\n")
		builder.WriteString("  • The API is briefly overloaded\n")

	case APIErrorTimeout:
		builder.WriteString("The request to Stripe timed out.\n")
		builder.WriteString("This could be due to:\n")
		builder.WriteString("  • Slow or unstable internet connection\n")
		builder.WriteString("  • The API taking too long to respond\n")

	case APIErrorAuth:
		builder.WriteString("Stripe rejected the stored API key.\n")
		builder.WriteString("To fix this:\n")
		builder.WriteString("  • Run 'stripeql login' with a current secret key\n")
		builder.WriteString("  • The key may have been rolled or revoked in the dashboard\n")

	default:
		builder.WriteString("The scan was interrupted.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • Network connection dropped\n")
		builder.WriteString("  • The Stripe API returned an unexpected response\n")
	}

	builder.WriteString("\n")

	// Action to take
	switch errType {
	case APIErrorAuth:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'stripeql login' and try again"))
	case APIErrorRateLimited:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please wait a moment and try again"))
	default:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try the command again"))
	}

	builder.WriteString("\n")

	// Technical details (optional, for debugging)
	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentAPIError displays a formatted upstream failure.
func PresentAPIError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatAPIError(errMsg))
	fmt.Println()
}

// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify is the outbound notification sink.

The API never talks SMTP itself: confirmation emails are published as JSON
messages to a broker exchange and delivered by a separate worker. Publishing
is fire-and-forget — a broker outage must never fail the HTTP request that
triggered the notification.
*/
package notify

import "context"

// Email is the message contract consumed by the mail worker.
type Email struct {
	// Recipient is the destination email address.
	Recipient string `json:"recipient"`
	// Subject is the mail subject line.
	Subject string `json:"subject"`
	// Body is the plain-text mail body (contains the confirmation code).
	Body string `json:"body"`
}

// Sender publishes outbound emails.
//
// # Contract
//
// Implementations must be safe for concurrent use and must not block longer
// than the request context allows. Callers treat a returned error as a
// non-fatal warning.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// routingKey addresses the mail worker's queue on the exchange.
const routingKey = "mail.confirmation"

// AMQPSender implements [Sender] on top of a RabbitMQ exchange.
//
// # Resilience
//
// The channel is lazily re-opened after a broker hiccup. Errors are returned
// to the caller (who logs and moves on) instead of being retried in-line, so
// a dead broker costs one failed publish, not a blocked request.
type AMQPSender struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPSender connects to the broker and declares the mail exchange.
func NewAMQPSender(url, exchange string, logger *slog.Logger) (*AMQPSender, error) {
	sender := &AMQPSender{
		url:      url,
		exchange: exchange,
		logger:   logger,
	}

	if err := sender.connect(); err != nil {
		return nil, err
	}

	logger.Info("amqp sender connected", slog.String("exchange", exchange))
	return sender, nil
}

// connect (re-)establishes the connection, channel and exchange topology.
// Callers must hold no assumptions about prior state.
func (sender *AMQPSender) connect() error {
	conn, err := amqp.Dial(sender.url)
	if err != nil {
		return fmt.Errorf("notify: amqp dial failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("notify: amqp channel open failed: %w", err)
	}

	// Durable direct exchange; idempotent declaration.
	if err := channel.ExchangeDeclare(
		sender.exchange, // name
		"direct",        // kind
		true,            // durable
		false,           // autoDelete
		false,           // internal
		false,           // noWait
		nil,             // args
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return fmt.Errorf("notify: amqp exchange declare failed: %w", err)
	}

	sender.conn = conn
	sender.channel = channel
	return nil
}

// Send publishes one email message. It implements [Sender].
func (sender *AMQPSender) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("notify: marshal email failed: %w", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()

	// Re-open the channel if the broker dropped us since the last publish.
	if sender.conn == nil || sender.conn.IsClosed() {
		if err := sender.connect(); err != nil {
			return err
		}
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := sender.channel.PublishWithContext(ctx,
		sender.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	); err != nil {
		return fmt.Errorf("notify: amqp publish failed: %w", err)
	}

	return nil
}

// Close releases the broker connection during shutdown.
func (sender *AMQPSender) Close() error {
	sender.mu.Lock()
	defer sender.mu.Unlock()

	if sender.channel != nil {
		_ = sender.channel.Close()
	}
	if sender.conn != nil {
		return sender.conn.Close()
	}
	return nil
}

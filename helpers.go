package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/streadway/amqp"
)

func CleanJson(input string) string {
	clean := strings.TrimSpace(input)

	// Remove opening ```json or ``` with optional newline
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// publishUpdate fans an event out on the updates exchange.
func publishUpdate(pub publisher, exchange, routingKey string, update map[string]any) error {
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return pub.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

// sendReply answers an RPC-style command through the default exchange.
func sendReply(pub publisher, replyTo, correlationID string, reply Reply) error {
	body, err := json.Marshal(reply)
	if err != nil {
		return err
	}

	return pub.Publish(
		"", // default exchange routes by queue name
		replyTo,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
}

// Package broker hands task payloads and result notifications to the
// external delivery infrastructure: a RabbitMQ queue per operator for
// notifications and a Redis list per implant for task dispatch. Delivery is
// at-least-once; consumers handle duplicates.
package broker

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// operatorQueuePrefix namespaces the per-operator notification queues.
const operatorQueuePrefix = "op."

// Notifier publishes operator notifications over RabbitMQ.
type Notifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	host string
	port int
}

// NewNotifier dials RabbitMQ and opens a publishing channel. Host and port
// are the broker coordinates handed back to operators at authentication
// time; they may differ from the dial URL when the broker sits behind NAT.
func NewNotifier(url, host string, port int) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Notifier{conn: conn, ch: ch, host: host, port: port}, nil
}

// Host returns the broker host operators should connect to.
func (n *Notifier) Host() string { return n.host }

// Port returns the broker port operators should connect to.
func (n *Notifier) Port() int { return n.port }

// DeclareOperatorQueue ensures the operator's durable notification queue
// exists and returns its name.
func (n *Notifier) DeclareOperatorQueue(username string) (string, error) {
	if n == nil || n.ch == nil {
		return "", errors.New("notifier not connected")
	}
	name := operatorQueuePrefix + username
	if _, err := n.ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return "", err
	}
	return name, nil
}

// Publish sends a message to an operator queue.
func (n *Notifier) Publish(ctx context.Context, queue string, body []byte) error {
	if n == nil || n.ch == nil {
		return errors.New("notifier not connected")
	}
	return n.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Close tears down the channel and connection.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

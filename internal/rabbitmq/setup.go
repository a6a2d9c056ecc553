package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Топология событий бронирования.
const (
	BookingsExchange    = "bookings"
	BookingCreatedQueue = "bookings.created"
	BookingCreatedKey   = "created"
)

// QueueConfig очередь и ключ маршрутизации, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BookingQueues очереди обменника bookings.
func BookingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BookingCreatedQueue, RoutingKey: BookingCreatedKey},
	}
}

// SetupChannel открывает канал, объявляет обменник bookings и привязывает к нему очереди.
// prefetch ограничивает число неподтверждённых сообщений на канал, 0 - без ограничения.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig, prefetch int) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if prefetch > 0 {
		if err = ch.Qos(prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: qos: %w", op, err)
		}
	}

	if err = ch.ExchangeDeclare(BookingsExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: declare queue %s: %w", op, q.QueueName, err)
		}
		if err = ch.QueueBind(q.QueueName, q.RoutingKey, BookingsExchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: bind queue %s to %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}
	return ch, nil
}

package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/staycation/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

// Consume читает очередь queueName и обрабатывает сообщения не более чем workers
// обработчиками одновременно. Возвращается, когда ctx отменён или канал закрыт,
// дождавшись завершения начатых обработчиков.
func Consume(ctx context.Context, ch *amqp.Channel, queueName string, workers int, handler Handler, log *slog.Logger) error {
	const op = "rabbitmq.Consume"
	if workers < 1 {
		workers = 1
	}

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return dispatch(ctx, deliveries, workers, handler, log)
}

// acknowledger подтверждает или возвращает сообщение.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func dispatch(ctx context.Context, deliveries <-chan amqp.Delivery, workers int, handler Handler, log *slog.Logger) error {
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				release(deliveryAck{d}, log)
				return nil
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				handle(ctx, d.Body, d.Redelivered, deliveryAck{d}, handler, log)
			}(d)
		}
	}
}

type deliveryAck struct{ d amqp.Delivery }

func (a deliveryAck) Ack(multiple bool) error         { return a.d.Ack(multiple) }
func (a deliveryAck) Nack(multiple, requeue bool) error { return a.d.Nack(multiple, requeue) }

// release возвращает в очередь сообщение, которое не успели взять в обработку.
func release(ack acknowledger, log *slog.Logger) {
	if err := ack.Nack(false, true); err != nil {
		log.Error("failed to requeue message", sl.Err(err))
	}
}

// handle вызывает обработчик и подтверждает сообщение.
// Повторно доставленное сообщение при ошибке не возвращается в очередь второй раз.
func handle(ctx context.Context, body []byte, redelivered bool, ack acknowledger, handler Handler, log *slog.Logger) {
	if err := handler(ctx, body); err != nil {
		log.Error("failed to handle message", slog.Bool("redelivered", redelivered), sl.Err(err))
		if nackErr := ack.Nack(false, !redelivered); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}

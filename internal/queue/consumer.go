package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const bookingLogPath = "logs/booking.log"

// StartBookingConsumer connects to RabbitMQ, declares the booking
// queues and consumes them, appending one human-readable line per
// event to logs/booking.log. It runs a reconnect loop with capped
// exponential backoff and never returns; failing messages are
// rejected without requeue so the server keeps operating. Run it in
// its own goroutine.
func StartBookingConsumer(url string, log *zap.Logger) {
	if url == "" {
		url = defaultAMQPURL
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("booking consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, log); err != nil {
			log.Warn("booking consumer loop ended", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking consumer set QoS failed", zap.Error(err))
	}

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	for _, queueName := range []string{CreatedQueue, CancelledQueue} {
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", queueName, err)
		}
		msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", queueName, err)
		}
		wg.Add(1)
		go func(queueName string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				if err := handleMessage(queueName, d.Body); err != nil {
					log.Warn("booking consumer handle failed",
						zap.String("queue", queueName), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
			errc <- fmt.Errorf("delivery channel for %s closed", queueName)
		}(queueName, msgs)
	}
	err = <-errc
	_ = ch.Close()
	wg.Wait()
	return err
}

func handleMessage(queueName string, body []byte) error {
	var line string
	switch queueName {
	case CreatedQueue:
		var ev BookingCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal created event: %w", err)
		}
		line = fmt.Sprintf("%s CREATED booking=%s user=%d room=%d (%s %s) stay=[%s,%s) guests=%d total_cents=%d",
			time.Now().UTC().Format(time.RFC3339), ev.BookingID, ev.UserID, ev.RoomID,
			ev.HotelName, ev.RoomNumber, ev.CheckInDate, ev.CheckOutDate,
			ev.NumberOfGuests, ev.TotalCents)
	case CancelledQueue:
		var ev BookingCancelledEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal cancelled event: %w", err)
		}
		line = fmt.Sprintf("%s CANCELLED booking=%s user=%d room=%d stay=[%s,%s)",
			time.Now().UTC().Format(time.RFC3339), ev.BookingID, ev.UserID, ev.RoomID,
			ev.CheckInDate, ev.CheckOutDate)
	default:
		return fmt.Errorf("unknown queue %q", queueName)
	}
	return appendLogLine(line)
}

func appendLogLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(bookingLogPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(bookingLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = fmt.Fprintln(f, line)
	return err
}

package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	gomail "gopkg.in/gomail.v2"

	"github.com/iliyamo/movie-reservation/internal/config"
)

// StartNotificationConsumer connects to the broker, declares the event
// queue and consumes reservation events. Each event is appended to
// logs/reservations.log and, when SMTP is configured, mailed to the
// customer. The function runs a reconnect loop with capped backoff and
// never returns under normal operation; failed messages are rejected
// without requeue so a poison message cannot wedge the consumer.
func StartNotificationConsumer(cfg config.Config) error {
	if cfg.AMQPURL == "" {
		return errors.New("amqp url not configured")
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("notify-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, cfg); err != nil {
			log.Printf("notify-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, cfg config.Config) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notify-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.EventQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(cfg.EventQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, cfg); err != nil {
			log.Printf("notify-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, cfg config.Config) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := appendLog(ev); err != nil {
		return err
	}
	// Email is best effort; log and move on so the event is still acked.
	if cfg.SMTPHost != "" && ev.UserEmail != "" {
		if err := sendEmail(cfg, ev); err != nil {
			log.Printf("notify-consumer: send email failed: %v", err)
		}
	}
	return nil
}

func appendLog(ev ReservationEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "reservations.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	seats := "[]"
	if len(ev.SeatLabels) > 0 {
		seats = "[" + strings.Join(ev.SeatLabels, ",") + "]"
	}
	line := fmt.Sprintf("[%s] %s | reservation_id=%d | code=%s | user_id=%d | movie=%q | starts_at=%s | seats=%s\n",
		ev.OccurredAt, ev.Kind, ev.ReservationID, ev.Code, ev.UserID, ev.MovieTitle, ev.StartsAt, seats)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sendEmail(cfg config.Config, ev ReservationEvent) error {
	subject := "Your reservation is confirmed"
	intro := "Your booking is confirmed."
	if ev.Kind == KindCancelled {
		subject = "Your reservation was cancelled"
		intro = "Your booking has been cancelled and the seats released."
	}
	bodyText := fmt.Sprintf("%s\n\nMovie: %s\nShowtime: %s\nSeats: %s\nReservation code: %s\n",
		intro, ev.MovieTitle, ev.StartsAt, strings.Join(ev.SeatLabels, ", "), ev.Code)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTPFrom)
	m.SetHeader("To", ev.UserEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", bodyText)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return d.DialAndSend(m)
}

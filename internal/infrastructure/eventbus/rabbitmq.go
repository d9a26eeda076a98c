// Package eventbus publica los eventos del ledger en RabbitMQ para
// indexadores externos. Es un adaptador best-effort: el log durable vive en
// ledger_events y la publicación ocurre después del commit.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/jhoicas/mercado-ledger/internal/application/ports"
)

const publishTimeout = 5 * time.Second

// RabbitMQPublisher publica eventos en un exchange topic durable con
// confirmaciones de publisher.
type RabbitMQPublisher struct {
	mu            sync.Mutex
	connection    *amqp.Connection
	channel       *amqp.Channel
	notifyConfirm chan amqp.Confirmation
	exchange      string
}

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher conecta, abre el canal en modo confirm y declara el
// exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	log.Info().Str("exchange", exchange).Msg("Conectando publicador de eventos a RabbitMQ")
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("fallo al conectar con RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("fallo al abrir canal: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("el canal no pudo entrar en modo confirm: %w", err)
	}
	notifyConfirm := make(chan amqp.Confirmation, 1)
	ch.NotifyPublish(notifyConfirm)

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("fallo al declarar exchange %s: %w", exchange, err)
	}

	log.Info().Msg("Publicador de eventos conectado")
	return &RabbitMQPublisher{
		connection:    conn,
		channel:       ch,
		notifyConfirm: notifyConfirm,
		exchange:      exchange,
	}, nil
}

// Publish envía el cuerpo con la routing key dada y espera la confirmación
// del broker.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("fallo al publicar mensaje: %w", err)
	}

	select {
	case confirm := <-p.notifyConfirm:
		if confirm.Ack {
			return nil
		}
		return errors.New("mensaje publicado pero no confirmado")
	case <-time.After(publishTimeout):
		return errors.New("timeout esperando confirmación de publicación")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cierra canal y conexión.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}

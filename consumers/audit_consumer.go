package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/utils"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// AuditStore es lo único que el consumidor necesita del repositorio de auditoría
type AuditStore interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
}

var validActions = map[string]bool{"create": true, "update": true, "delete": true}

// AuditConsumer lee los eventos de la cola y los guarda en el registro de actividad
type AuditConsumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	store      AuditStore
	logger     *zap.Logger
	done       chan struct{}
}

// NewAuditConsumer conecta con RabbitMQ y declara la cola de eventos
func NewAuditConsumer(rabbitURL, queueName string, store AuditStore, logger *zap.Logger) (*AuditConsumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info("Audit consumer connected", zap.String("queue", queueName))
	return newAuditConsumer(conn, ch, queueName, store, logger), nil
}

func newAuditConsumer(conn *amqp.Connection, ch *amqp.Channel, queueName string, store AuditStore, logger *zap.Logger) *AuditConsumer {
	return &AuditConsumer{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		store:      store,
		logger:     logger,
	}
}

// Start registra el consumidor y procesa los mensajes en una goroutine.
// La goroutine termina cuando se cierra el canal (ver Close).
func (c *AuditConsumer) Start() error {
	// Un mensaje a la vez
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manejamos manualmente)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Audit consumer registered", zap.String("queue", c.queueName))

	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		for msg := range msgs {
			c.processMessage(msg)
		}
	}()
	return nil
}

// processMessage guarda un evento. Los mensajes inválidos y los que
// fallan al guardarse se descartan sin requeue.
func (c *AuditConsumer) processMessage(msg amqp.Delivery) {
	var event domain.EntityEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Warn("Discarding malformed event", zap.Error(err), zap.String("body", utils.Truncate(string(msg.Body), 200)))
		c.reject(msg)
		return
	}

	if err := validateEvent(event); err != nil {
		c.logger.Warn("Discarding invalid event", zap.Error(err), zap.Any("event", event))
		c.reject(msg)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry := logEntry(event, msg)
	if err := c.store.Insert(ctx, entry); err != nil {
		c.logger.Error("Failed to store activity log",
			zap.String("action", event.Action),
			zap.String("entity", event.Entity),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
		c.reject(msg)
		return
	}

	c.logger.Debug("Activity logged",
		zap.String("action", event.Action),
		zap.String("entity", event.Entity),
		zap.String("entity_id", event.EntityID))

	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to ack message", zap.Error(err))
	}
}

func (c *AuditConsumer) reject(msg amqp.Delivery) {
	if err := msg.Nack(false, false); err != nil {
		c.logger.Error("Failed to nack message", zap.Error(err))
	}
}

func validateEvent(event domain.EntityEvent) error {
	switch {
	case !validActions[event.Action]:
		return fmt.Errorf("unknown action %q", event.Action)
	case event.Entity == "":
		return errors.New("entity is empty")
	case event.EntityID == "":
		return errors.New("entity_id is empty")
	}
	return nil
}

func logEntry(event domain.EntityEvent, msg amqp.Delivery) *domain.ActivityLog {
	entry := &domain.ActivityLog{
		UserID:    event.UserID,
		Action:    event.Action,
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		CreatedAt: msg.Timestamp,
	}
	if msg.MessageId != "" {
		entry.Details = map[string]any{"message_id": msg.MessageId}
	}
	return entry
}

// Close cierra el canal y la conexión y espera a que termine el procesamiento
func (c *AuditConsumer) Close() error {
	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if c.done != nil {
		select {
		case <-c.done:
		case <-time.After(5 * time.Second):
			c.logger.Warn("Audit consumer did not drain in time")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing audit consumer: %w", errors.Join(errs...))
	}
	c.logger.Info("Audit consumer closed")
	return nil
}

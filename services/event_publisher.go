package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EventPublisher avisa de los cambios en las entidades
type EventPublisher interface {
	Publish(ctx context.Context, event domain.EntityEvent) error
	Close() error
}

// amqpPublisher publica en una cola durable de RabbitMQ
type amqpPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	logger     *zap.Logger
}

// NewAMQPPublisher conecta con RabbitMQ y declara la cola de eventos
func NewAMQPPublisher(rabbitURL, queueName string, logger *zap.Logger) (EventPublisher, error) {
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

	logger.Info("Event publisher connected", zap.String("queue", queueName))
	return &amqpPublisher{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		logger:     logger,
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event domain.EntityEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Un channel de amqp no se comparte entre goroutines sin sincronizar
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",          // exchange por defecto
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s %s: %w", event.Action, event.Entity, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.connection.Close()
		return err
	}
	return p.connection.Close()
}

// noopPublisher se usa cuando no hay RabbitMQ configurado
type noopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher crea un publisher que solo deja constancia en el log
func NewNoopPublisher(logger *zap.Logger) EventPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) Publish(ctx context.Context, event domain.EntityEvent) error {
	p.logger.Debug("Event not published (no broker configured)",
		zap.String("action", event.Action),
		zap.String("entity", event.Entity),
		zap.String("entity_id", event.EntityID))
	return nil
}

func (p *noopPublisher) Close() error { return nil }

// publish manda el evento sin hacer fallar la operación que lo originó
func publish(ctx context.Context, publisher EventPublisher, logger *zap.Logger, action, entity, entityID, userID string) {
	event := domain.EntityEvent{Action: action, Entity: entity, EntityID: entityID, UserID: userID}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName = "notification_queue"
	EventsExchange        = "loyalty_events"
)

type EventType string

const (
	EventPointsAwarded  EventType = "points.awarded"
	EventTierUpgraded   EventType = "tier.upgraded"
	EventRewardRedeemed EventType = "reward.redeemed"
)

var routedEvents = []EventType{EventPointsAwarded, EventTierUpgraded, EventRewardRedeemed}

// Event is the message body published for customer-facing domain changes.
type Event struct {
	Type           EventType `json:"type"`
	CustomerID     string    `json:"customer_id"`
	Points         int       `json:"points,omitempty"`
	TotalPoints    int       `json:"total_points,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	PreviousTier   string    `json:"previous_tier,omitempty"`
	NewTier        string    `json:"new_tier,omitempty"`
	RewardName     string    `json:"reward_name,omitempty"`
	RedemptionCode string    `json:"redemption_code,omitempty"`
	Priority       int       `json:"priority,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, eventType := range routedEvents {
		if err := channel.QueueBind(NotificationQueueName, string(eventType), EventsExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue for %s: %w", eventType, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends an event to the exchange using its type as routing key.
func (c *Client) Publish(ctx context.Context, event Event) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(ctx,
		EventsExchange,     // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     clampPriority(event.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s for customer %s: %v", event.Type, event.CustomerID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published %s for customer %s", event.Type, event.CustomerID)
	return nil
}

// Consume delivers queued events to handler. Malformed bodies are dropped,
// handler failures are requeued.
func (c *Client) Consume(handler func(Event) error) error {
	msgs, err := c.channel.Consume(
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", NotificationQueueName)

	go func() {
		for msg := range msgs {
			event, err := decodeEvent(msg.Body)
			if err != nil {
				c.logger.Error("[RABBITMQ] Failed to decode event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s (customer %s): %v", event.Type, event.CustomerID, err)
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}

func encodeEvent(event Event) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return body, nil
}

func decodeEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, err
	}
	if event.Type == "" || event.CustomerID == "" {
		return Event{}, fmt.Errorf("event missing type or customer id")
	}
	return event, nil
}

func clampPriority(priority int) uint8 {
	if priority <= 0 {
		return 1
	}
	if priority > 10 {
		return 10
	}
	return uint8(priority)
}

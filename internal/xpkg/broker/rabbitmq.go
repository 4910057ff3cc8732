package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/errors"
	"restaurant-pos/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	reconnectInterval = 5 * time.Second
	kitchenQueue      = "kitchen_orders"
)

type RabbitMQ struct {
	ctx          context.Context
	cfg          *config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           sync.Mutex

	prefetch int
}

// New connects and declares the order and notification exchanges.
func New(ctx context.Context, cfg *config.RabbitMQ, mylog logger.Logger, prefetch int) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:      ctx,
		cfg:      cfg,
		mylog:    mylog,
		prefetch: prefetch,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRMQConn, err)
	}
	return r, nil
}

// Open returns a RabbitMQ publisher when a host is configured and a Nop otherwise.
func Open(ctx context.Context, cfg *config.RabbitMQ, mylog logger.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return NewNop(mylog), nil
	}
	r, err := New(ctx, cfg, mylog, 1)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}

	if err := ch.Qos(r.prefetch, 0, false); err != nil {
		conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(OrdersExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	if err := ch.ExchangeDeclare(NotificationsExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare %s: %w", NotificationsExchange, err)
	}
	if _, err := ch.QueueDeclare(kitchenQueue, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare %s: %w", kitchenQueue, err)
	}
	if err := ch.QueueBind(kitchenQueue, "kitchen.*", OrdersExchange, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("bind %s: %w", kitchenQueue, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.reconnecting = false
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return errors.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return errors.ErrMBCh
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

func (r *RabbitMQ) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	return r.publish(ctx, OrdersExchange, RoutingKitchenPending, e)
}

func (r *RabbitMQ) PublishStatusChanged(ctx context.Context, e StatusChanged) error {
	return r.publish(ctx, NotificationsExchange, "", e)
}

func (r *RabbitMQ) publish(ctx context.Context, exchange, routingKey string, message any) error {
	log := r.mylog.Action("publish_message")

	if err := r.IsAlive(); err != nil {
		log.Error("connection between rabbitmq is closed", err)
		go r.reconnect(r.ctx)
		return fmt.Errorf("rabbitmq: %w", err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	return ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// ConsumeNotifications binds a private queue to the notifications fanout
// so every subscriber receives every status change.
func (r *RabbitMQ) ConsumeNotifications(ctx context.Context, consumer string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare notification queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", NotificationsExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind notification queue: %w", err)
	}
	return ch.ConsumeWithContext(ctx, q.Name, consumer, false, true, false, false, nil)
}

// ConsumeKitchenOrders reads order_placed events from the durable kitchen
// queue. Deliveries must be acknowledged.
func (r *RabbitMQ) ConsumeKitchenOrders(ctx context.Context, consumer string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	deliveries, err := ch.ConsumeWithContext(ctx, kitchenQueue, consumer, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", kitchenQueue, err)
	}
	return deliveries, nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	t := time.NewTicker(reconnectInterval)
	defer t.Stop()
	log := r.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				log.Info("rabbitmq reconnected")
				return
			}
			log.Info("rabbitmq failed to reconnect")

		case <-ctx.Done():
			return
		}
	}
}

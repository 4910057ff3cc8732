package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurant-pos/internal/notsub/app/core"
	"restaurant-pos/internal/notsub/app/services"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerName = "notification-subscriber"

type Notification struct {
	cfg     *config.Config
	mylog   logger.Logger
	mb      core.IRabbitMQ
	service *services.NotificationService
	ctx     context.Context
	appCtx  context.Context

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewNotification(
	ctx context.Context,
	appCtx context.Context,
	cfg *config.Config,
	service *services.NotificationService,
	mylog logger.Logger,
) *Notification {
	return &Notification{
		ctx:     ctx,
		appCtx:  appCtx,
		cfg:     cfg,
		service: service,
		mylog:   mylog,
	}
}

// Run consumes status changes until the context is cancelled or the
// delivery channel closes.
func (n *Notification) Run() error {
	mylog := n.mylog.Action("run_notifications")

	n.mu.Lock()
	mb := n.mb
	n.mu.Unlock()

	if mb == nil {
		var err error
		if mb, err = n.initializeRabbitMQ(); err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
			return err
		}
		mylog.Action("mb_connected").Info("Successful message broker connection")
	}

	deliveries, err := mb.ConsumeNotifications(n.ctx, consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume message from rabbitmq: %w", err)
	}

	n.work(deliveries)
	return nil
}

func (n *Notification) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.mylog.Action("graceful_shutdown_started").Info("Shutting down")

	n.wg.Wait()

	if n.mb != nil {
		if err := n.mb.Close(); err != nil {
			n.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		n.mylog.Action("mb_closed").Info("Message broker closed")
	}

	n.mylog.Action("graceful_shutdown_completed").Info("Successfully shutted down")
	return nil
}

func (n *Notification) work(deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-n.ctx.Done():
			n.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return

		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			n.wg.Add(1)
			n.processMsg(msg)
			n.wg.Done()
		}
	}
}

// processMsg acks handled messages and drops malformed ones without requeue.
func (n *Notification) processMsg(msg amqp.Delivery) {
	if _, err := n.service.Handle(msg.Body); err != nil {
		n.mylog.Action("process_msg").Error("Failed to process notification", err)
		requeue := !errors.Is(err, core.ErrBadMessage)
		if err := msg.Nack(false, requeue); err != nil {
			n.mylog.Action("nack").Error("Failed to nack", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		n.mylog.Action("ack").Error("Failed to ack message", err)
	}
}

func (n *Notification) initializeRabbitMQ() (core.IRabbitMQ, error) {
	if !n.cfg.RMQ.Enabled() {
		return nil, core.ErrBrokerDisabled
	}
	mb, err := broker.New(n.appCtx, n.cfg.RMQ, n.mylog, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	n.mu.Lock()
	n.mb = mb
	n.mu.Unlock()
	return mb, nil
}

package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-hub/internal/models"
)

// WelcomePublisher публикует приветственные уведомления в очередь.
type WelcomePublisher struct {
	ch *amqp.Channel
}

// NewWelcomePublisher создает издателя поверх открытого канала.
func NewWelcomePublisher(ch *amqp.Channel) *WelcomePublisher {
	return &WelcomePublisher{ch: ch}
}

// PublishWelcome отправляет сообщение о новом пользователе.
func (p *WelcomePublisher) PublishWelcome(msg models.WelcomeMessage) error {
	return PublishMessage(p.ch, Exchange, WelcomeQueue.RoutingKey, msg)
}

package service

import (
	"context"
	"errors"
	"log"

	"autobier-api/internal/model"
	"autobier-api/internal/repository"

	"gorm.io/gorm"
)

type eventAction int

const (
	actionNone eventAction = iota
	actionMarkPaid
	actionCancel
	actionDelete
)

// eventActions maps each known gateway event to the local reconciliation
// action. Events outside this table are acknowledged and ignored.
var eventActions = map[model.PaymentEvent]eventAction{
	model.EventPaymentReceived:  actionMarkPaid,
	model.EventPaymentConfirmed: actionMarkPaid,
	model.EventPaymentOverdue:   actionCancel,
	model.EventPaymentRefunded:  actionCancel,
	model.EventPaymentDeleted:   actionDelete,
}

type WebhookService interface {
	// Process applies one gateway notification. It is safe to run twice for
	// the same payment: guarded status updates and missing orders are no-ops.
	Process(ctx context.Context, rawEvent, paymentID string) error
}

type webhookServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
}

func NewWebhookService(db *gorm.DB, orderRepo repository.OrderRepository) WebhookService {
	return &webhookServiceImpl{
		db:        db,
		orderRepo: orderRepo,
	}
}

func (s *webhookServiceImpl) Process(ctx context.Context, rawEvent, paymentID string) error {
	event := model.ParseEvent(rawEvent)

	switch eventActions[event] {
	case actionMarkPaid:
		return s.markByPayment(ctx, paymentID, model.OrderPaid)
	case actionCancel:
		return s.markByPayment(ctx, paymentID, model.OrderCancelled)
	case actionDelete:
		return s.deleteByPayment(ctx, paymentID)
	default:
		log.Printf("webhook: ignoring event %q for payment %s", rawEvent, paymentID)
		return nil
	}
}

func (s *webhookServiceImpl) markByPayment(ctx context.Context, paymentID string, to model.OrderStatus) error {
	order, err := s.orderRepo.FindByPaymentID(ctx, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("webhook: no order for payment %s, ignoring", paymentID)
		return nil
	}
	if err != nil {
		return err
	}

	rows, err := s.orderRepo.MarkStatus(ctx, order.ID, to)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Redelivery or late event against a terminal state.
		log.Printf("webhook: order %s not moved to %s (current status %s), no-op", order.ID, to, order.Status)
		return nil
	}

	log.Printf("webhook: order %s moved to %s (payment %s)", order.ID, to, paymentID)
	return nil
}

// deleteByPayment mirrors a charge deleted on the gateway side. The remote
// charge is already gone, so no cancel call is made; the local order and its
// items are removed outright.
func (s *webhookServiceImpl) deleteByPayment(ctx context.Context, paymentID string) error {
	order, err := s.orderRepo.FindByPaymentID(ctx, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("webhook: payment %s already has no order, ignoring delete", paymentID)
		return nil
	}
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Delete(ctx, tx, order.ID)
	})
	if err != nil {
		return err
	}

	log.Printf("webhook: order %s removed after remote charge %s deletion", order.ID, paymentID)
	return nil
}

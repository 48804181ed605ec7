package usecase

import (
	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// authorize decides whether actor may run op against order.
func authorize(op lifecycle.Operation, actor model.Actor, order model.Order) error {
	if actor.Privileged() {
		return nil
	}
	if actor.UserID == "" {
		return domainErrors.ErrForbidden
	}

	var allowed bool
	switch op {
	case lifecycle.OpConfirm, lifecycle.OpDecline, lifecycle.OpStartService, lifecycle.OpCompleteService:
		allowed = actor.UserID == order.ProviderID
	case lifecycle.OpCancel, lifecycle.OpDispute:
		allowed = order.Party(actor.UserID)
	}
	if !allowed {
		return domainErrors.ErrForbidden
	}
	return nil
}

func canView(actor model.Actor, order model.Order) error {
	if actor.Privileged() || order.Party(actor.UserID) {
		return nil
	}
	return domainErrors.ErrForbidden
}

func requireAdmin(actor model.Actor) error {
	if actor.Privileged() {
		return nil
	}
	return domainErrors.ErrForbidden
}

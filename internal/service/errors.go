package service

import (
	"errors"

	"launchthat.app/portal/internal/access"
	"launchthat.app/portal/internal/model"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
)

func authorize(actor model.Actor, perm model.Permission) error {
	if !access.Allowed(actor, perm) {
		return ErrPermissionDenied
	}
	return nil
}

func requireMember(actor model.Actor) error {
	if !access.IsMember(actor) {
		return ErrPermissionDenied
	}
	return nil
}

package service

import "errors"

var (
	ErrContractNotFound   = errors.New("no client is associated with the contract")
	ErrClientNotFound     = errors.New("client not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

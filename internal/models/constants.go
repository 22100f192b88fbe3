package models

import "fmt"

// Статусы заявки на уборку.
const (
	RequestStatusSubmitted     = "submitted"
	RequestStatusInNegotiation = "in_negotiation"
	RequestStatusAccepted      = "accepted"
	RequestStatusRejected      = "rejected"
)

// Статусы ценового предложения.
const (
	QuoteStatusPending   = "pending"
	QuoteStatusCountered = "countered"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
)

// Статусы счёта.
const (
	BillStatusUnpaid   = "unpaid"
	BillStatusPaid     = "paid"
	BillStatusDisputed = "disputed"
)

// Отправители сообщений: клиент или администратор ("anna").
const (
	SenderClient = "client"
	SenderAnna   = "anna"
)

var requestStatuses = map[string]bool{
	RequestStatusSubmitted:     true,
	RequestStatusInNegotiation: true,
	RequestStatusAccepted:      true,
	RequestStatusRejected:      true,
}

var quoteStatuses = map[string]bool{
	QuoteStatusPending:   true,
	QuoteStatusCountered: true,
	QuoteStatusAccepted:  true,
	QuoteStatusRejected:  true,
}

var billStatuses = map[string]bool{
	BillStatusUnpaid:   true,
	BillStatusPaid:     true,
	BillStatusDisputed: true,
}

var senders = map[string]bool{
	SenderClient: true,
	SenderAnna:   true,
}

// ValidateRequestStatus проверяет, что статус заявки принадлежит закрытому множеству.
func ValidateRequestStatus(status string) error {
	if !requestStatuses[status] {
		return fmt.Errorf("неизвестный статус заявки: %q", status)
	}
	return nil
}

// ValidateQuoteStatus проверяет статус предложения.
func ValidateQuoteStatus(status string) error {
	if !quoteStatuses[status] {
		return fmt.Errorf("неизвестный статус предложения: %q", status)
	}
	return nil
}

// ValidateBillStatus проверяет статус счёта.
func ValidateBillStatus(status string) error {
	if !billStatuses[status] {
		return fmt.Errorf("неизвестный статус счёта: %q", status)
	}
	return nil
}

// ValidateSender проверяет отправителя сообщения.
func ValidateSender(sender string) error {
	if !senders[sender] {
		return fmt.Errorf("неизвестный отправитель: %q", sender)
	}
	return nil
}

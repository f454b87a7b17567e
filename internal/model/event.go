package model

// PaymentEvent is the closed set of Asaas webhook events this service acts
// on. Anything the gateway sends outside this set parses to EventUnknown and
// is acknowledged without processing.
type PaymentEvent string

const (
	EventUnknown          PaymentEvent = ""
	EventPaymentReceived  PaymentEvent = "PAYMENT_RECEIVED"
	EventPaymentConfirmed PaymentEvent = "PAYMENT_CONFIRMED"
	EventPaymentDeleted   PaymentEvent = "PAYMENT_DELETED"
	EventPaymentOverdue   PaymentEvent = "PAYMENT_OVERDUE"
	EventPaymentRefunded  PaymentEvent = "PAYMENT_REFUNDED"
)

var knownEvents = map[string]PaymentEvent{
	string(EventPaymentReceived):  EventPaymentReceived,
	string(EventPaymentConfirmed): EventPaymentConfirmed,
	string(EventPaymentDeleted):   EventPaymentDeleted,
	string(EventPaymentOverdue):   EventPaymentOverdue,
	string(EventPaymentRefunded):  EventPaymentRefunded,
}

func ParseEvent(raw string) PaymentEvent {
	return knownEvents[raw]
}

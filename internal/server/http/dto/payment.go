package dto

// PaymentWebhookRequest is the payment collaborator's notification.
type PaymentWebhookRequest struct {
	OrderID       string `json:"orderId"`
	OrderNumber   string `json:"orderNumber"`
	TransactionID string `json:"transactionId"`
	Method        string `json:"paymentMethod"`
	Provider      string `json:"paymentProvider"`
}

// PaymentWebhookResponse acknowledges a notification.
type PaymentWebhookResponse struct {
	Status      string `json:"status"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

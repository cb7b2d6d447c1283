package dto

// Envelope is the common response body.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	PaymentURL string            `json:"paymentUrl,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// WebhookAck acknowledges a gateway notification.
type WebhookAck struct {
	Received bool `json:"received"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
}

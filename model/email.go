package model

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Status string

// StatusDelivered is the only delivery state tracked today.
const StatusDelivered Status = "delivered"

// EmailRecord is a normalized mailbox entry. Records live only in the
// process cache and are rebuilt on every fetch cycle.
type EmailRecord struct {
	ID          uint32    `json:"id"`
	Subject     string    `json:"subject"`
	FromEmail   string    `json:"fromEmail"`
	FromName    string    `json:"fromName"`
	ToEmail     string    `json:"toEmail"`
	ToName      string    `json:"toName"`
	Direction   Direction `json:"direction"`
	Status      Status    `json:"status"`
	IsRead      bool      `json:"isRead"`
	IsStarred   bool      `json:"isStarred"`
	IsImportant bool      `json:"isImportant"`
	CreatedAt   string    `json:"createdAt"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent"`
	Images      []string  `json:"images"`
}

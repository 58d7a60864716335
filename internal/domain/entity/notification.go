package entity

import "time"

// ReturnNotification aviso al solicitante original cuando la bodega recibe su devolución.
type ReturnNotification struct {
	ID                 string
	CompanyID          string
	ReturnID           string
	OriginalTransferID string
	RequesterID        string
	ProductReference   string
	Size               string
	Quantity           int
	Condition          string
	Restocked          bool
	Message            string
	ReadByRequester    bool
	CreatedAt          time.Time
	ReadAt             *time.Time
}

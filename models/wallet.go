package models

import "time"

// Wallet tracks an actor's balances in integer currency units. The reservation
// core only moves money through the repository's increment operations; full
// ledger bookkeeping lives with the wallet collaborator.
type Wallet struct {
	OwnerID       string    `bson:"owner_id" json:"ownerId"`
	Pending       int64     `bson:"pending" json:"pending"`
	Available     int64     `bson:"available" json:"available"`
	RefundBalance int64     `bson:"refund_balance" json:"refundBalance"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

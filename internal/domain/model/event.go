package model

import "time"

// OrderEvent is an audit record of one applied transition.
type OrderEvent struct {
	ID         int64
	OrderID    string
	Operation  string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	ActorID    string
	Detail     string
	OccurredAt time.Time
}

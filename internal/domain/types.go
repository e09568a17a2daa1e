package domain

import "time"

type AppName string
type UserID string
type SessionID string
type TurnID string

const (
	AppNotes  AppName = "notes"
	AppClinic AppName = "clinic"
	AppOrders AppName = "orders"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time

package domain

import "github.com/google/uuid"

type PostMessageCommand struct {
	From string
	To   string
	Text string
	Kind Kind
}

type UpdateMessageCommand struct {
	ID     uuid.UUID
	Author string
	To     string
	Text   string
	Kind   Kind
}

// Package domain defines the core domain models for resultsboard.
package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SessionState represents the chat session state.
type SessionState string

const (
	SessionStateIdle             SessionState = "idle"
	SessionStateAwaitingResponse SessionState = "awaiting_response"
)

// BlockKind classifies one line of an assistant reply for rendering.
type BlockKind string

const (
	BlockKindHeading   BlockKind = "heading"
	BlockKindBullet    BlockKind = "bullet"
	BlockKindParagraph BlockKind = "paragraph"
	BlockKindBlank     BlockKind = "blank"
)

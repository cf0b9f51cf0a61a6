package models

import "time"

// TargetType is the kind of entity a notification points at
type TargetType string

const (
	TargetPost     TargetType = "post"
	TargetBlogPost TargetType = "blogPost"
	TargetUser     TargetType = "user"
)

func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetBlogPost || t == TargetUser
}

type TargetOptions struct {
	CommentID string `json:"commentId,omitempty"`
	ReplyID   string `json:"replyId,omitempty"`
}

type NotificationTarget struct {
	TargetType TargetType    `json:"targetType"`
	Options    TargetOptions `json:"options"`
}

// NotificationState is the position of a notification in its lifecycle
type NotificationState int

const (
	StateUnseen NotificationState = iota
	StateSeen
	StateRead
)

// Notification represents a user notification (PostgreSQL). Read and Seen
// only ever move from false to true, through MarkSeen and MarkRead.
type Notification struct {
	ID         uint               `json:"id" gorm:"primaryKey"`
	FromID     string             `json:"from" gorm:"size:64;index"`
	AdressatID string             `json:"adressat" gorm:"size:64;not null;index"`
	Message    string             `json:"message"`
	Location   string             `json:"location"`
	Target     NotificationTarget `json:"target" gorm:"type:text;serializer:json"`
	Read       bool               `json:"read" gorm:"column:is_read;not null;default:false;index"`
	Seen       bool               `json:"seen" gorm:"column:is_seen;not null;default:false;index"`
	CreatedAt  time.Time          `json:"createdAt" gorm:"index"`
}

func (n *Notification) State() NotificationState {
	switch {
	case n.Read:
		return StateRead
	case n.Seen:
		return StateSeen
	default:
		return StateUnseen
	}
}

// MarkSeen moves an unseen notification to seen and reports whether it changed
func (n *Notification) MarkSeen() bool {
	if n.State() != StateUnseen {
		return false
	}
	n.Seen = true
	return true
}

// MarkRead moves the notification to read, implying seen, and reports whether it changed
func (n *Notification) MarkRead() bool {
	if n.State() == StateRead {
		return false
	}
	n.Seen, n.Read = true, true
	return true
}

// UnseenNotification is the compact view returned by the unseen endpoint
type UnseenNotification struct {
	ID   uint `json:"id"`
	Read bool `json:"read"`
}

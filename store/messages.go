package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm/clause"

	"undangan/models"
)

const maxMessageLen = 2000

// MessageView is a message joined with the guest fields shown next to it.
type MessageView struct {
	ID           uint      `json:"id"`
	InvitationID uint      `json:"invitation_id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	From         string    `json:"from"`
	Slug         string    `json:"slug"`
}

// MessageInput targets an invitation either by id or by slug.
type MessageInput struct {
	InvitationID *uint
	Slug         string
	Message      string
}

func validateMessageText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("message", "message is required")
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return "", invalid("message", fmt.Sprintf("message longer than %d characters", maxMessageLen))
	}
	return text, nil
}

// ListMessages returns messages newest first, optionally for one invitation.
func (s *Store) ListMessages(ctx context.Context, invitationID *uint) ([]MessageView, error) {
	q := s.db.WithContext(ctx).Table("messages").
		Select(`messages.id, messages.invitation_id, messages.message, messages.created_at, invitations.name, invitations."from" AS "from", invitations.slug`).
		Joins("JOIN invitations ON invitations.id = messages.invitation_id")
	if invitationID != nil {
		q = q.Where("messages.invitation_id = ?", *invitationID)
	}
	out := []MessageView{}
	if err := q.Order("messages.id DESC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListMessagesBySlug returns the messages of invitation sl.
func (s *Store) ListMessagesBySlug(ctx context.Context, sl string) ([]MessageView, error) {
	inv, err := s.invitationBySlug(ctx, s.db, sl)
	if err != nil {
		return nil, err
	}
	return s.ListMessages(ctx, &inv.ID)
}

// CreateMessage attaches a message to an existing invitation.
func (s *Store) CreateMessage(ctx context.Context, in MessageInput) (models.Message, error) {
	text, err := validateMessageText(in.Message)
	if err != nil {
		return models.Message{}, err
	}
	var inv models.Invitation
	switch {
	case in.InvitationID != nil:
		if err := s.db.WithContext(ctx).First(&inv, *in.InvitationID).Error; err != nil {
			return models.Message{}, notFound(err, "invitation")
		}
	case strings.TrimSpace(in.Slug) != "":
		inv, err = s.invitationBySlug(ctx, s.db, strings.TrimSpace(in.Slug))
		if err != nil {
			return models.Message{}, err
		}
	default:
		return models.Message{}, invalid("invitation_id", "invitation_id or slug is required")
	}
	m := models.Message{InvitationID: inv.ID, Message: text}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// UpdateMessage replaces the body of message id.
func (s *Store) UpdateMessage(ctx context.Context, id uint, text string) (models.Message, error) {
	text, err := validateMessageText(text)
	if err != nil {
		return models.Message{}, err
	}
	var m models.Message
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return models.Message{}, notFound(err, "message")
	}
	if err := s.db.WithContext(ctx).Model(&m).Update("message", text).Error; err != nil {
		return models.Message{}, fmt.Errorf("update message %d: %w", id, err)
	}
	m.Message = text
	return m, nil
}

// DeleteMessage removes message id.
func (s *Store) DeleteMessage(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %w", ErrNotFound)
	}
	return nil
}

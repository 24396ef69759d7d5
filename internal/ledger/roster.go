package ledger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// GroupInput describes a new group.
type GroupInput struct {
	Name string
	// Currency defaults to the configured default currency.
	Currency string
	// OwnerName is the display name of the owner's participant.
	OwnerName  string
	OwnerEmail string
}

// ParticipantInput describes a participant joining a group.
type ParticipantInput struct {
	Name string
	// Email links the participant to the registered user with that email,
	// when there is one.
	Email string
}

// ParticipantUpdate carries the fields to change. Nil fields are kept.
type ParticipantUpdate struct {
	Name  *string
	Email *string
}

// CreateGroup creates a group owned by the actor together with the owner's
// own participant.
func (l *Ledger) CreateGroup(ctx context.Context, actor Actor, in GroupInput) (*models.Group, error) {
	if actor.UserID == "" {
		return nil, apperr.Forbidden("authentication required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.BadRequest("group name is required")
	}
	ownerName := strings.TrimSpace(in.OwnerName)
	if ownerName == "" {
		return nil, apperr.BadRequest("owner name is required")
	}
	currency, err := normalizeCurrency(in.Currency, l.cfg.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	var group *models.Group
	err = l.mutate(ctx, "create_group", func(tx storage.Tx) error {
		group = &models.Group{Name: name, OwnerID: actor.UserID, Currency: currency}
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		return tx.AddParticipant(ctx, &models.Participant{
			GroupID: group.ID,
			UserID:  actor.UserID,
			Name:    ownerName,
			Email:   normalizeEmail(in.OwnerEmail),
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "owner_id", group.OwnerID, "currency", group.Currency)
	return group, nil
}

// GetGroup returns a group the actor belongs to.
func (l *Ledger) GetGroup(ctx context.Context, actor Actor, groupID string) (*models.Group, error) {
	return memberGroup(ctx, l.store, groupID, actor)
}

// DeleteGroup removes a group and everything it owns. Owner only.
func (l *Ledger) DeleteGroup(ctx context.Context, actor Actor, groupID string) error {
	err := l.mutate(ctx, "delete_group", func(tx storage.Tx) error {
		group, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}
		return tx.DeleteGroup(ctx, groupID)
	})
	if err != nil {
		return err
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// AddParticipant adds a participant to the group roster. Owner only.
// An email already used in the group is rejected.
func (l *Ledger) AddParticipant(ctx context.Context, actor Actor, groupID string, in ParticipantInput) (*models.Participant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.BadRequest("participant name is required")
	}
	email := normalizeEmail(in.Email)

	var userID string
	if email != "" {
		user, err := l.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			userID = user.ID
		}
	}

	var participant *models.Participant
	err := l.mutate(ctx, "add_participant", func(tx storage.Tx) error {
		group, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}

		roster, err := tx.ListParticipants(ctx, groupID)
		if err != nil {
			return err
		}
		for _, p := range roster {
			if email != "" && p.Email == email {
				return apperr.BadRequest("%s is already a participant of this group", email)
			}
			if userID != "" && p.UserID == userID {
				return apperr.BadRequest("user is already a participant of this group")
			}
		}

		participant = &models.Participant{GroupID: groupID, UserID: userID, Name: name, Email: email}
		return tx.AddParticipant(ctx, participant)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant added",
		"group_id", groupID,
		"participant_id", participant.ID,
		"linked", participant.UserID != "",
	)
	return participant, nil
}

// ListParticipants returns the roster with running totals.
func (l *Ledger) ListParticipants(ctx context.Context, actor Actor, groupID string) ([]*models.Participant, error) {
	if _, err := memberGroup(ctx, l.store, groupID, actor); err != nil {
		return nil, err
	}
	return l.store.ListParticipants(ctx, groupID)
}

// GetParticipant returns a participant with its running totals.
func (l *Ledger) GetParticipant(ctx context.Context, actor Actor, participantID string) (*models.Participant, error) {
	p, err := l.store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, l.store, p.GroupID, actor); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateParticipant renames a participant or changes its email. Owner only.
// An unlinked participant whose new email belongs to a registered user is
// linked to that user. Running totals never change.
func (l *Ledger) UpdateParticipant(ctx context.Context, actor Actor, participantID string, upd ParticipantUpdate) (*models.Participant, error) {
	var name, email string
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.BadRequest("participant name is required")
		}
	}
	var userID string
	if upd.Email != nil {
		email = normalizeEmail(*upd.Email)
		if email != "" {
			user, err := l.store.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if user != nil {
				userID = user.ID
			}
		}
	}

	var participant *models.Participant
	err := l.mutate(ctx, "update_participant", func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, p.GroupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}

		if upd.Name != nil {
			p.Name = name
		}
		if upd.Email != nil && email != p.Email {
			roster, err := tx.ListParticipants(ctx, group.ID)
			if err != nil {
				return err
			}
			for _, other := range roster {
				if other.ID == p.ID {
					continue
				}
				if email != "" && other.Email == email {
					return apperr.BadRequest("%s is already a participant of this group", email)
				}
				if p.UserID == "" && userID != "" && other.UserID == userID {
					return apperr.BadRequest("user is already a participant of this group")
				}
			}
			p.Email = email
			if p.UserID == "" {
				p.UserID = userID
			}
		}
		if err := tx.UpdateParticipant(ctx, p); err != nil {
			return err
		}
		participant = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant updated",
		"group_id", participant.GroupID,
		"participant_id", participant.ID,
		"linked", participant.UserID != "",
	)
	return participant, nil
}

// RemoveParticipant deletes a participant. Owner only. The owner's own
// participant, a participant referenced by any expense, split or
// settlement, and a participant with non-zero totals are kept.
func (l *Ledger) RemoveParticipant(ctx context.Context, actor Actor, participantID string) error {
	var groupID string
	err := l.mutate(ctx, "remove_participant", func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, p.GroupID)
		if err != nil {
			return err
		}
		if err := requireOwner(group, actor); err != nil {
			return err
		}
		groupID = group.ID

		if p.UserID != "" && p.UserID == group.OwnerID {
			return apperr.BadRequest("the group owner cannot be removed")
		}
		referenced, err := tx.IsParticipantReferenced(ctx, participantID)
		if err != nil {
			return err
		}
		if referenced {
			return apperr.BadRequest("participant %s is referenced by expenses or settlements", participantID)
		}
		if !p.TotalPaid.IsZero() || !p.TotalOwed.IsZero() {
			return apperr.BadRequest("participant %s has a non-zero balance", participantID)
		}
		return tx.RemoveParticipant(ctx, participantID)
	})
	if err != nil {
		return err
	}

	slog.Info("Participant removed", "group_id", groupID, "participant_id", participantID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

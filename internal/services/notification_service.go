package services

import (
	"context"
	"fmt"

	"workhub/internal/logger"
	"workhub/internal/models"
	"workhub/internal/notify"
	"workhub/internal/repositories"
)

// NotificationService is a hub subscriber that translates workflow events
// into telegram pings and emails for the affected assignees. It sits fully
// outside the workflow transaction: a delivery failure is logged, never
// propagated.
type NotificationService struct {
	users repositories.UserRepository
	tg    *TelegramService
	email EmailService
}

func NewNotificationService(users repositories.UserRepository, tg *TelegramService, email EmailService) *NotificationService {
	return &NotificationService{users: users, tg: tg, email: email}
}

// Attach subscribes to the hub.
func (n *NotificationService) Attach(hub *notify.Hub) {
	hub.Subscribe(n.handle)
}

func (n *NotificationService) handle(e notify.Event) {
	ctx := context.Background()
	switch e.Type {
	case notify.TaskPublished:
		for _, m := range e.Task.Modules {
			text := fmt.Sprintf("📌 New module assigned: <b>%s</b> (task %q)", m.Title, e.Task.Title)
			n.pingAssignees(ctx, m.AssigneeIDs, text)
		}
	case notify.ModuleApproved:
		m := n.moduleOf(e)
		if m == nil {
			return
		}
		text := fmt.Sprintf("✅ Module approved: <b>%s</b>", m.Title)
		n.pingAssignees(ctx, m.AssigneeIDs, text)
	case notify.ModuleRejected:
		m := n.moduleOf(e)
		if m == nil {
			return
		}
		text := fmt.Sprintf("❌ Module rejected: <b>%s</b>\nReason: %s", m.Title, e.Reason)
		n.pingAssignees(ctx, m.AssigneeIDs, text)
		n.emailRejection(ctx, m, e.Reason)
	}
}

func (n *NotificationService) moduleOf(e notify.Event) *models.Module {
	if e.Task == nil {
		return nil
	}
	idx := e.Task.ModuleIndex(e.ModuleID)
	if idx < 0 {
		return nil
	}
	return &e.Task.Modules[idx]
}

func (n *NotificationService) pingAssignees(ctx context.Context, assigneeIDs []string, text string) {
	if n.tg == nil {
		return
	}
	for _, id := range assigneeIDs {
		user, err := n.users.GetByID(ctx, id)
		if err != nil {
			logger.Warnf("[notify][tg] load user %s: %v", id, err)
			continue
		}
		if !user.NotifyTelegram || user.TelegramChatID == 0 {
			continue
		}
		if err := n.tg.SendMessage(user.TelegramChatID, text); err != nil {
			logger.Warnf("[notify][tg] send to %s: %v", id, err)
		}
	}
}

func (n *NotificationService) emailRejection(ctx context.Context, m *models.Module, reason string) {
	if n.email == nil {
		return
	}
	for _, id := range m.AssigneeIDs {
		user, err := n.users.GetByID(ctx, id)
		if err != nil {
			logger.Warnf("[notify][email] load user %s: %v", id, err)
			continue
		}
		if err := n.email.SendModuleRejectedEmail(user.Email, m.Title, reason); err != nil {
			logger.Warnf("[notify][email] rejection mail to %s: %v", user.Email, err)
		}
	}
}

package dto

import (
	"github.com/faturado/faturado/internal/domain/notification"
)

type NotificationResponse struct {
	*notification.Notification
}

type ListNotificationsResponse struct {
	Items []*NotificationResponse `json:"items"`
	Total int                     `json:"total"`
}

package enums

import "fmt"

// NotificationType classifies in-app notification rows.
type NotificationType string

const (
	NotificationTypeOrderCreated NotificationType = "ORDER_CREATED"
	NotificationTypeOrderUpdate  NotificationType = "ORDER_UPDATE"
	NotificationTypePromotion    NotificationType = "PROMOTION"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderCreated,
	NotificationTypeOrderUpdate,
	NotificationTypePromotion,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

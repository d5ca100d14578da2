package utils

import "strings"

// MaskPhone hides all but the last four digits of a phone number.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return phone
	}
	return "******" + phone[len(phone)-4:]
}

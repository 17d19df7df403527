package model

import (
	"strings"
)

type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Badge is how a status value is presented in tables
type Badge struct {
	Label string
	Tone  Tone
}

var badges = map[string]Badge{
	StatusPending:      {Label: "Pending", Tone: ToneWarning},
	"CONFIRMED":        {Label: "Confirmed", Tone: ToneInfo},
	"IN_PROGRESS":      {Label: "In progress", Tone: ToneInfo},
	StatusCompleted:    {Label: "Completed", Tone: ToneSuccess},
	StatusCancelled:    {Label: "Cancelled", Tone: ToneDanger},
	"ACTIVE":           {Label: "Active", Tone: ToneSuccess},
	UserStatusInactive: {Label: "Inactive", Tone: ToneNeutral},
	UserStatusBlocked:  {Label: "Blocked", Tone: ToneDanger},
}

// BadgeFor maps a status value to its badge. Unknown values are shown as is.
func BadgeFor(status string) Badge {
	if b, ok := badges[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return b
	}
	return Badge{Label: status, Tone: ToneNeutral}
}

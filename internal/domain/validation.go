package domain

import (
	"regexp"
	"strings"
)

var loginRe = regexp.MustCompile(`^[A-Za-z0-9]{4,}$`)

func ValidLogin(s string) bool { return loginRe.MatchString(s) }

func ValidPassword(s string) bool { return len(s) >= 8 }

// RequireLabels collects the field errors shared by every labelled entity.
func RequireLabels(ve *ValidationError, labelIta, labelEng string) {
	if strings.TrimSpace(labelIta) == "" {
		ve.Add("label_ita", "required")
	}
	if strings.TrimSpace(labelEng) == "" {
		ve.Add("label_eng", "required")
	}
}

package slugai

import (
	"context"
)

// NoticeLevel is the severity of a settings notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown after settings are saved.
type Notice struct {
	Code    string
	Level   NoticeLevel
	Message string
}

// Notice codes.
const (
	NoticeMissingAPIKey   = "missing_api_key"
	NoticeValidAPIKey     = "valid_api_key"
	NoticeQuotaWarning    = "quota_warning"
	NoticeInvalidAPIKey   = "invalid_api_key"
	NoticeQuotaUnreadable = "quota_unreadable"
)

// CheckSettings runs the checks that follow a settings save. Without an API key
// it warns when the proxy quota is known to be used up; with one it probes the
// key and reports its status.
func CheckSettings(ctx context.Context, cfg Config, checker KeyChecker, quota QuotaState) []Notice {
	var notices []Notice

	if cfg.APIKey == "" {
		if quota == nil {
			return notices
		}
		remaining, ok, err := quota.Remaining(ctx)
		if err != nil {
			return append(notices, Notice{
				Code:    NoticeQuotaUnreadable,
				Level:   NoticeWarning,
				Message: "The remaining free translation quota could not be read: " + err.Error(),
			})
		}
		if ok && remaining == 0 {
			notices = append(notices, Notice{
				Code:    NoticeMissingAPIKey,
				Level:   NoticeWarning,
				Message: "You've used all your free translations. To keep using AI slug translation, please enter your OpenAI API key.",
			})
		}
		return notices
	}

	switch checker.CheckKeyStatus(ctx, cfg.APIKey) {
	case KeyValid:
		notices = append(notices, Notice{
			Code:    NoticeValidAPIKey,
			Level:   NoticeSuccess,
			Message: "OpenAI API key is valid and working.",
		})
	case KeyInsufficientQuota:
		notices = append(notices, Notice{
			Code:    NoticeQuotaWarning,
			Level:   NoticeWarning,
			Message: "OpenAI API key is valid, but you have no remaining credit.",
		})
	default:
		notices = append(notices, Notice{
			Code:    NoticeInvalidAPIKey,
			Level:   NoticeError,
			Message: "The provided OpenAI API key is invalid or unauthorized. Please double-check your key.",
		})
	}

	return notices
}

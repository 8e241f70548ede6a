package slugai

import (
	"context"
	"errors"
	"testing"
)

type fakeChecker struct {
	status KeyStatus
	calls  int
}

func (f *fakeChecker) CheckKeyStatus(ctx context.Context, apiKey string) KeyStatus {
	f.calls++
	return f.status
}

type fakeQuota struct {
	n   int
	ok  bool
	err error
}

func (f *fakeQuota) Remaining(ctx context.Context) (int, bool, error) {
	return f.n, f.ok, f.err
}

func (f *fakeQuota) SetRemaining(ctx context.Context, n int) error {
	f.n, f.ok = n, true
	return nil
}

func TestCheckSettings_WithKey(t *testing.T) {
	tests := []struct {
		status    KeyStatus
		wantCode  string
		wantLevel NoticeLevel
	}{
		{KeyValid, NoticeValidAPIKey, NoticeSuccess},
		{KeyInsufficientQuota, NoticeQuotaWarning, NoticeWarning},
		{KeyInvalid, NoticeInvalidAPIKey, NoticeError},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			checker := &fakeChecker{status: tt.status}
			cfg := DefaultConfig()
			cfg.APIKey = "sk-test"

			notices := CheckSettings(context.Background(), cfg, checker, &fakeQuota{n: 0, ok: true})
			if len(notices) != 1 {
				t.Fatalf("Expected one notice, got %+v", notices)
			}
			if notices[0].Code != tt.wantCode || notices[0].Level != tt.wantLevel {
				t.Errorf("Got %s/%s, want %s/%s", notices[0].Code, notices[0].Level, tt.wantCode, tt.wantLevel)
			}
			if checker.calls != 1 {
				t.Errorf("Expected one key check, got %d", checker.calls)
			}
		})
	}
}

func TestCheckSettings_NoKey(t *testing.T) {
	tests := []struct {
		name  string
		quota *fakeQuota
		want  []string
	}{
		{"quota used up", &fakeQuota{n: 0, ok: true}, []string{NoticeMissingAPIKey}},
		{"quota left", &fakeQuota{n: 5, ok: true}, nil},
		{"quota unknown", &fakeQuota{}, nil},
		{"quota unreadable", &fakeQuota{err: errors.New("store down")}, []string{NoticeQuotaUnreadable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeChecker{status: KeyValid}

			notices := CheckSettings(context.Background(), DefaultConfig(), checker, tt.quota)
			if len(notices) != len(tt.want) {
				t.Fatalf("Expected %v, got %+v", tt.want, notices)
			}
			for i, code := range tt.want {
				if notices[i].Code != code {
					t.Errorf("Notice %d = %s, want %s", i, notices[i].Code, code)
				}
			}
			if checker.calls != 0 {
				t.Error("No key check should run without a key")
			}
		})
	}
}

package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/email"
)

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config email.Config
		errMsg string
	}{
		{
			name:   "valid config",
			config: email.Config{PostmarkServerToken: "server-token", SenderEmail: "reports@example.com"},
		},
		{
			name:   "valid config with reply-to",
			config: email.Config{PostmarkServerToken: "server-token", SenderEmail: "reports@example.com", SupportEmail: "support@example.com"},
		},
		{
			name:   "missing server token",
			config: email.Config{SenderEmail: "reports@example.com"},
			errMsg: "PostmarkServerToken is required",
		},
		{
			name:   "missing sender",
			config: email.Config{PostmarkServerToken: "server-token"},
			errMsg: "SenderEmail is required",
		},
		{
			name:   "invalid sender",
			config: email.Config{PostmarkServerToken: "server-token", SenderEmail: "reports"},
			errMsg: "SenderEmail must be a valid email address",
		},
		{
			name:   "invalid support email",
			config: email.Config{PostmarkServerToken: "server-token", SenderEmail: "reports@example.com", SupportEmail: "support@"},
			errMsg: "SupportEmail must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := email.NewPostmarkClient(tt.config)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			require.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, client)
		})
	}
}

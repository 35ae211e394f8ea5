package smtp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wneessen/go-mail"

	"github.com/stretchr/testify/require"
)

type captureClient struct {
	calls    int
	failures int
	last     *mail.Msg
}

func (c *captureClient) DialAndSend(msgs ...*mail.Msg) error {
	c.calls++
	if c.calls <= c.failures {
		return errors.New("dial failed")
	}
	if len(msgs) > 0 {
		c.last = msgs[0]
	}
	return nil
}

func TestSend_RejectionTemplate(t *testing.T) {
	client := &captureClient{}
	mailer := &Mailer{client: client, from: "no-reply@onboardly.dev"}

	data := map[string]any{
		"BaseURL": "http://localhost:4000",
		"Name":    "Grace Hopper",
	}

	err := mailer.Send("grace@example.com", data, "kyc-rejected.tmpl")
	require.NoError(t, err)
	require.NotNil(t, client.last)

	var rendered bytes.Buffer
	_, err = client.last.WriteTo(&rendered)
	require.NoError(t, err)

	message := rendered.String()
	require.Contains(t, message, "grace@example.com")
	require.Contains(t, message, "Grace Hopper")
}

func TestSend_ErrorNotificationTemplate(t *testing.T) {
	client := &captureClient{}
	mailer := &Mailer{client: client, from: "no-reply@onboardly.dev"}

	data := map[string]any{
		"Message":       "boom",
		"RequestMethod": "GET",
		"RequestURL":    "/status",
		"Trace":         "goroutine 1",
	}

	err := mailer.Send("ops@example.com", data, "error-notification.tmpl")
	require.NoError(t, err)
	require.NotNil(t, client.last)
}

func TestSend_UnknownTemplate(t *testing.T) {
	client := &captureClient{}
	mailer := &Mailer{client: client, from: "no-reply@onboardly.dev"}

	err := mailer.Send("grace@example.com", nil, "does-not-exist.tmpl")
	require.Error(t, err)
	require.Zero(t, client.calls)
}

func TestSend_RetriesDial(t *testing.T) {
	client := &captureClient{failures: 1}
	mailer := &Mailer{client: client, from: "no-reply@onboardly.dev"}

	err := mailer.Send("grace@example.com", map[string]any{"Name": "Grace"}, "kyc-rejected.tmpl")
	require.NoError(t, err)
	require.Equal(t, 2, client.calls)
}

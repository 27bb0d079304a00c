package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anubclao/Edueat/config"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	fake := &fakeSES{}
	m := NewSESMailer(fake, &config.MailConfig{From: "no-reply@edueats.com", FromName: "Casino Escolar"}, zap.NewNop())

	err := m.Send(context.Background(), Message{To: "ana@colegio.edu", Subject: "Verifica", Text: "hola", HTML: "<p>hola</p>"})
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, []string{"ana@colegio.edu"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Casino Escolar <no-reply@edueats.com>", aws.ToString(fake.input.Source))
	assert.Equal(t, "Verifica", aws.ToString(fake.input.Message.Subject.Data))
	assert.NotNil(t, fake.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	m := NewSESMailer(fake, &config.MailConfig{From: "no-reply@edueats.com"}, zap.NewNop())

	err := m.Send(context.Background(), Message{To: "ana@colegio.edu", Subject: "x", Text: "y"})
	assert.Error(t, err)
	assert.Equal(t, "no-reply@edueats.com", aws.ToString(fake.input.Source))
}

func TestNew_DefaultsToLogDriver(t *testing.T) {
	m, err := New(context.Background(), &config.MailConfig{Driver: "log"}, zap.NewNop())
	require.NoError(t, err)
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.co", Subject: "s", Text: "t"}))
}

package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSESClient_SendTextEmail(t *testing.T) {
	api := &fakeSES{}
	id, err := NewSESClientWithAPI(api).SendTextEmail(context.Background(), "adopt@example.com", "jane@example.com", "Hello", "Body")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "adopt@example.com", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"jane@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Body", aws.ToString(api.input.Message.Body.Text.Data))

	api.err = errors.New("throttled")
	_, err = NewSESClientWithAPI(api).SendTextEmail(context.Background(), "a", "b", "c", "d")
	assert.ErrorContains(t, err, "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &fakeSNS{}
	id, err := NewSNSClientWithAPI(api).SendSMS(context.Background(), "+15550100", "Approved!", "PUPPIES")
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "+15550100", aws.ToString(api.input.PhoneNumber))
	assert.Contains(t, api.input.MessageAttributes, "AWS.SNS.SMS.SenderID")

	_, err = NewSNSClientWithAPI(api).SendSMS(context.Background(), "+15550100", "Approved!", "")
	require.NoError(t, err)
	assert.NotContains(t, api.input.MessageAttributes, "AWS.SNS.SMS.SenderID")
}

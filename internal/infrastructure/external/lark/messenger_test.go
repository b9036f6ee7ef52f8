package lark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/garyjia/payroll-console/internal/domain/event"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	receiveIDType string
	body          *larkim.CreateMessageReqBody
}

type mockMessages struct {
	sendFunc func(ctx context.Context, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error)
	sent     []sentMessage
	requests []*larkim.CreateMessageReq
}

func (m *mockMessages) Send(ctx context.Context, receiveIDType string, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error) {
	m.sent = append(m.sent, sentMessage{receiveIDType: receiveIDType, body: body})
	if m.sendFunc != nil {
		return m.sendFunc(ctx, body)
	}
	return &larkim.CreateMessageResp{
		Data: &larkim.CreateMessageRespData{MessageId: larkcore.StringPtr("om_1")},
	}, nil
}

func (m *mockMessages) Create(ctx context.Context, req *larkim.CreateMessageReq, _ ...larkcore.RequestOptionFunc) (*larkim.CreateMessageResp, error) {
	m.requests = append(m.requests, req)
	return &larkim.CreateMessageResp{}, nil
}

type mockMessenger struct {
	sent []string
	err  error
}

func (m *mockMessenger) SendText(_ context.Context, chatID, content string) error {
	m.sent = append(m.sent, chatID+"|"+content)
	return m.err
}

func TestMessenger_SendText(t *testing.T) {
	messages := &mockMessages{}
	m := &Messenger{send: messages.Send, logger: zap.NewNop()}

	err := m.SendText(context.Background(), "oc_finance", `Claim "CLM-1" approved`)
	require.NoError(t, err)
	require.Len(t, messages.sent, 1)

	sent := messages.sent[0]
	assert.Equal(t, receiveIDTypeChat, sent.receiveIDType)
	require.NotNil(t, sent.body)
	assert.Equal(t, "oc_finance", *sent.body.ReceiveId)
	assert.Equal(t, msgTypeText, *sent.body.MsgType)

	var content map[string]string
	require.NoError(t, json.Unmarshal([]byte(*sent.body.Content), &content))
	assert.Equal(t, `Claim "CLM-1" approved`, content["text"])
}

func TestSDKSender_CreatesOneRequest(t *testing.T) {
	messages := &mockMessages{}
	send := sdkSender(messages)

	resp, err := send(context.Background(), receiveIDTypeChat, larkim.NewCreateMessageReqBodyBuilder().
		ReceiveId("oc_finance").
		MsgType(msgTypeText).
		Content(`{"text":"hi"}`).
		Build())
	require.NoError(t, err)
	assert.NotNil(t, resp)
	require.Len(t, messages.requests, 1)
	assert.NotNil(t, messages.requests[0])
}

func TestMessenger_SendText_Validation(t *testing.T) {
	messages := &mockMessages{}
	m := &Messenger{send: messages.Send, logger: zap.NewNop()}

	assert.Error(t, m.SendText(context.Background(), "", "hello"))
	assert.Error(t, m.SendText(context.Background(), "oc_finance", "  "))
	assert.Empty(t, messages.sent)
}

func TestMessenger_SendText_APIFailure(t *testing.T) {
	messages := &mockMessages{
		sendFunc: func(context.Context, *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error) {
			return &larkim.CreateMessageResp{CodeError: larkcore.CodeError{Code: 230002, Msg: "bot not in chat"}}, nil
		},
	}
	m := &Messenger{send: messages.Send, logger: zap.NewNop()}

	err := m.SendText(context.Background(), "oc_finance", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot not in chat")

	messages.sendFunc = func(context.Context, *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error) {
		return nil, errors.New("dial tcp: refused")
	}
	assert.Error(t, m.SendText(context.Background(), "oc_finance", "hello"))
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name string
		evt  *event.Event
		want string
		ok   bool
	}{
		{
			name: "claim approved by manager",
			evt:  event.NewEvent(event.TypeClaimApproved, "c1", map[string]interface{}{"stage": "manager"}),
			want: "Claim approved: c1 (manager)",
			ok:   true,
		},
		{
			name: "refund created",
			evt:  event.NewEvent(event.TypeRefundCreated, "d1", map[string]interface{}{"type": "dispute", "amount": 150.0}),
			want: "Refund created: d1\nAmount: $150.00",
			ok:   true,
		},
		{
			name: "refund paid",
			evt:  event.NewEvent(event.TypeRefundPaid, "r1", map[string]interface{}{"payroll_run_id": "run-9"}),
			want: "Refund paid: r1\nPayroll run: run-9",
			ok:   true,
		},
		{
			name: "claim submitted is skipped",
			evt:  event.NewEvent(event.TypeClaimSubmitted, "", nil),
		},
		{name: "nil event"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatEvent(tt.evt)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventNotifier_Handle(t *testing.T) {
	messenger := &mockMessenger{}
	n := NewEventNotifier(messenger, "oc_finance", zap.NewNop())

	require.NoError(t, n.Handle(context.Background(), event.NewEvent(event.TypeDisputeApproved, "d1", nil)))
	require.NoError(t, n.Handle(context.Background(), event.NewEvent(event.TypeDisputeSubmitted, "", nil)))
	assert.Equal(t, []string{"oc_finance|Dispute approved: d1"}, messenger.sent)

	messenger.err = errors.New("down")
	assert.Error(t, n.Handle(context.Background(), event.NewEvent(event.TypeRefundPaid, "r1", nil)))
}

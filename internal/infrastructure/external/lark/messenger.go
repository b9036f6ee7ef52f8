package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

const (
	receiveIDTypeChat = "chat_id"
	msgTypeText       = "text"
)

// messageCreator is the slice of the SDK message service the messenger uses
type messageCreator interface {
	Create(ctx context.Context, req *larkim.CreateMessageReq, options ...larkcore.RequestOptionFunc) (*larkim.CreateMessageResp, error)
}

// sendFunc delivers one message body to receivers of receiveIDType
type sendFunc func(ctx context.Context, receiveIDType string, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error)

// sdkSender wraps the body into a create-message request
func sdkSender(messages messageCreator) sendFunc {
	return func(ctx context.Context, receiveIDType string, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error) {
		req := larkim.NewCreateMessageReqBuilder().
			ReceiveIdType(receiveIDType).
			Body(body).
			Build()
		return messages.Create(ctx, req)
	}
}

// Messenger implements port.ChatMessenger on top of the Lark IM API
type Messenger struct {
	send   sendFunc
	logger *zap.Logger
}

// NewMessenger creates a new Lark chat messenger
func NewMessenger(sdkClient *SDKClient, logger *zap.Logger) *Messenger {
	return &Messenger{
		send:   sdkSender(sdkClient.GetClient().Im.Message),
		logger: logger,
	}
}

// SendText posts a plain text message to a group chat
func (m *Messenger) SendText(ctx context.Context, chatID, content string) error {
	if chatID == "" {
		return fmt.Errorf("chatID cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}

	body, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	resp, err := m.send(ctx, receiveIDTypeChat, larkim.NewCreateMessageReqBodyBuilder().
		ReceiveId(chatID).
		MsgType(msgTypeText).
		Content(string(body)).
		Build())
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("chat_id", chatID),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if resp == nil {
		return fmt.Errorf("empty response from message API")
	}
	if !resp.Success() {
		m.logger.Error("API returned failure",
			zap.String("chat_id", chatID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	m.logger.Info("Message sent successfully",
		zap.String("message_id", messageID),
		zap.String("chat_id", chatID))

	return nil
}

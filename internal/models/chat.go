package models

import "encoding/json"

type (
	// ChatSend represents the body the chat page posts to /chat/api/send
	ChatSend struct {
		Text           string          `json:"text"`
		Username       string          `json:"username,omitempty"`
		ExternalID     string          `json:"external_id,omitempty"`
		IdentityID     json.RawMessage `json:"identity_id,omitempty"`
		IdentityRol    json.RawMessage `json:"identity_rol,omitempty"`
		AttachmentsRaw json.RawMessage `json:"attachments_raw,omitempty"`
		Channel        string          `json:"channel,omitempty"`
	}

	// ChatRequest represents the body of the upstream POST /api/assistant/chat
	ChatRequest struct {
		Text           string          `json:"text"`
		Username       string          `json:"username"`
		ExternalID     string          `json:"external_id"`
		IdentityID     json.RawMessage `json:"identity_id"`
		IdentityRol    json.RawMessage `json:"identity_rol"`
		AttachmentsRaw json.RawMessage `json:"attachments_raw"`
		HasVoice       bool            `json:"has_voice"`
		Channel        string          `json:"channel"`
	}

	// ChatReply represents the upstream assistant answer
	ChatReply struct {
		OK            bool            `json:"ok"`
		Error         string          `json:"error,omitempty"`
		ReplyText     json.RawMessage `json:"reply_text,omitempty"`
		ReplyVoice    json.RawMessage `json:"reply_voice,omitempty"`
		AudioFilename json.RawMessage `json:"audio_filename,omitempty"`
		MediaURL      json.RawMessage `json:"media_url,omitempty"`
		Raw           json.RawMessage `json:"raw,omitempty"`
	}

	// ChatResult is what the chat page receives back
	ChatResult struct {
		OK            bool            `json:"ok"`
		ReplyText     json.RawMessage `json:"reply_text"`
		ReplyVoice    json.RawMessage `json:"reply_voice"`
		AudioFilename json.RawMessage `json:"audio_filename"`
		MediaURL      json.RawMessage `json:"media_url"`
		BackendStatus int             `json:"backend_status"`
		BackendRaw    json.RawMessage `json:"backend_raw"`
	}
)

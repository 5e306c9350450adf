package models

import "encoding/json"

type (
	// PresignInput represents the body posted to /cases/{id}/attachments/presign
	PresignInput struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}

	// PresignRequest represents the body of the upstream presign call
	PresignRequest struct {
		Key         string `json:"key"`
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}

	// PresignReply is the part of the upstream presign answer the proxy reads
	PresignReply struct {
		UploadURL string `json:"upload_url"`
	}

	// PresignResponse is returned to the browser, which uploads to UploadURL itself
	PresignResponse struct {
		UploadURL string `json:"upload_url"`
		FinalKey  string `json:"final_key"`
	}

	// CommitRequest registers an uploaded object against a case
	CommitRequest struct {
		Key  string          `json:"key"`
		Kind string          `json:"kind,omitempty"`
		Meta json.RawMessage `json:"meta,omitempty"`
	}
)

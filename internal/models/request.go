package models

// Turn is one prior conversation entry sent along with a request.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ImageAttachment is the transport form of an attached image: a base64
// payload plus the MIME type it was sniffed or declared as.
type ImageAttachment struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// ChatRequest is the wire payload for POST /api/chat. At least one of Prompt,
// Messages, or Image must be present for the request to be valid.
type ChatRequest struct {
	Prompt   string           `json:"prompt,omitempty"`
	Messages []Turn           `json:"messages,omitempty"`
	Image    *ImageAttachment `json:"image,omitempty"`
}

// ChatResponse is the success body for POST /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

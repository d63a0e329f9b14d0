package domain

// PaperChatEnvelope is the body of GET .../paper/{paperId}/chat.
type PaperChatEnvelope struct {
	Success bool       `json:"success"`
	Data    *PaperChat `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
}

// PaperChat is the chat record of one (paper, user) pair as the backend
// stores it.
type PaperChat struct {
	ID           string    `json:"_id,omitempty"`
	PaperID      string    `json:"paperId"`
	UserID       string    `json:"userId"`
	ReviewerID   string    `json:"reviewer_id,omitempty"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Status       Status    `json:"status"`
	Messages     []Message `json:"messages,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty"`
}

// SendMessageRequest is the body of POST .../chat/message.
type SendMessageRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// SendMessageResponse is the minimal acknowledgement of a send.
type SendMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginRequest is the body of POST /api/auth/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/user/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both auth endpoints. The backend answers
// 200 and reports failures through Code/Msg.
type AuthResponse struct {
	Code        int       `json:"code,omitempty"`
	Msg         string    `json:"msg,omitempty"`
	AccessToken string    `json:"accessToken,omitempty"`
	User        *AuthUser `json:"user,omitempty"`
}

// AuthUser is the account summary embedded in AuthResponse.
type AuthUser struct {
	UniqueID string `json:"uniqueId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

package dto

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

type ExplainRequest struct {
	Term string `json:"term"`
}

type ExplainResponse struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// File path: internal/api/types.go
package api

type ingestRequest struct {
	Mode string `json:"mode"`
	Path string `json:"path"`
}

type ingestResponse struct {
	Document string `json:"document"`
}

type documentResponse struct {
	Identity    string `json:"identity"`
	Name        string `json:"name"`
	Mode        string `json:"mode"`
	Description string `json:"description,omitempty"`
}

type updateDocumentRequest struct {
	Mode        string  `json:"mode"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
}

type chatRequest struct {
	Mode      string `json:"mode"`
	Document  string `json:"document"`
	Namespace string `json:"namespace,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	Namespace string `json:"namespace"`
	Title     string `json:"title"`
	Sequence  int    `json:"sequence"`
}

type conversationResponse struct {
	Namespace string `json:"namespace"`
	Title     string `json:"title"`
	Document  string `json:"document"`
	Turns     int    `json:"turns"`
}

type turnResponse struct {
	Sequence int    `json:"sequence"`
	Human    string `json:"human"`
	AI       string `json:"ai"`
}

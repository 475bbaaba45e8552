package model

// Project is an isolated tenant with its own YouTube credential, channel
// roster and video corpus.
type Project struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	YoutubeActive   bool    `json:"youtubeActive"`
	IntegrationID   *int64  `json:"integrationId,omitempty"`
	CredentialValid bool    `json:"credentialValid"`
	Description     string  `json:"description,omitempty"`
	Keywords        string  `json:"keywords,omitempty"`
	NegativeKeywords string `json:"negativeKeywords,omitempty"`
	Country         string  `json:"country,omitempty"`
}

package models

// StoredFile describes an uploaded blob.
type StoredFile struct {
	Key         string `json:"chave"`
	Name        string `json:"nome"`
	Size        int64  `json:"tamanho"`
	ContentType string `json:"tipo,omitempty"`
}

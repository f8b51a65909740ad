package types

// RepositoryDescriptor identifies a remote repository created by the
// DevOps provider. It is returned to the caller and never retained.
type RepositoryDescriptor struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	RemoteURL string `json:"remoteUrl"`
	WebURL    string `json:"webUrl,omitempty"`
}

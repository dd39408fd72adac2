package remote

// Wire shapes for the git-data endpoints of the hosting provider. Only the
// fields the sync client reads or writes are declared.

type refResponse struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA  string `json:"sha"`
		Type string `json:"type"`
	} `json:"object"`
}

type commitResponse struct {
	SHA  string `json:"sha"`
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

type createBlobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type createBlobResponse struct {
	SHA string `json:"sha"`
}

type treeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type createTreeRequest struct {
	BaseTree string      `json:"base_tree"`
	Tree     []treeEntry `json:"tree"`
}

type createTreeResponse struct {
	SHA string `json:"sha"`
}

type createCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type createCommitResponse struct {
	SHA string `json:"sha"`
}

type updateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type contentsPutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
}

type contentsEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// RefLookupKind discriminates the outcome of a branch head resolution.
type RefLookupKind int

const (
	// RefFound means the branch exists; CommitSHA holds its head.
	RefFound RefLookupKind = iota
	// RefEmptyRepository means the branch or repository has no commits
	// yet, so the bootstrap write path applies.
	RefEmptyRepository
	// RefFailed means the lookup itself failed; Err carries the cause.
	RefFailed
)

// RefLookup is the tagged result of resolving a branch reference, so the
// upload state machine branches on an explicit kind instead of ad hoc
// status-code comparisons.
type RefLookup struct {
	Kind      RefLookupKind
	CommitSHA string
	Err       error
}

package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 100 to keep sidebar rendering sane and fit in a
	// single line of most tree UIs.
	MaxFolderNameLength = 100

	// MaxFolderIconLength is the maximum length for folder icon tags.
	MaxFolderIconLength = 50

	// MaxPromptLength is the maximum length for generation prompts.
	MaxPromptLength = 4000

	// MaxMoveBatchSize bounds a single bulk image move. Larger moves
	// should be issued as multiple requests.
	MaxMoveBatchSize = 100

	// MaxImagePageSize is the maximum number of images returned by a
	// single gallery listing.
	MaxImagePageSize = 100
)

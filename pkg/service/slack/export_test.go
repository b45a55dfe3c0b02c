package slack

// Export internal functions for testing
var (
	BuildBlocks        = buildBlocks
	TruncateToMaxBytes = truncateToMaxBytes
)

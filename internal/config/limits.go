package config

import "time"

// Validation limits and paging defaults
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 4000
	MaxFolderNameLength  = 255
	MaxCommentLength     = 4000
	MaxTagLength         = 64
	MaxTagsPerDocument   = 32

	DefaultPageSize = 20
	MaxPageSize     = 100

	// Depth guard for folder walks, alongside the visited-id set
	MaxFolderDepth = 128

	// Presigned URL lifetimes
	UploadURLExpiry   = 15 * time.Minute
	DownloadURLExpiry = 5 * time.Minute
)

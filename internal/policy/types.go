package policy

// Action identifies one gated engine operation. Every entry point resolves
// the caller's effective access level and compares it against the action's
// minimum level from the registry; no call site hardcodes a level.
type Action string

const (
	ActionDocumentRead    Action = "document.read"
	ActionDocumentList    Action = "document.list"
	ActionDocumentUpdate  Action = "document.update"
	ActionDocumentArchive Action = "document.archive"
	ActionDocumentRestore Action = "document.restore"
	ActionDocumentTag     Action = "document.tag"

	ActionVersionUpload   Action = "version.upload"
	ActionVersionList     Action = "version.list"
	ActionVersionRestore  Action = "version.restore"
	ActionVersionDownload Action = "version.download"

	ActionShareGrant  Action = "share.grant"
	ActionShareRevoke Action = "share.revoke"
	ActionShareList   Action = "share.list"

	ActionCommentCreate Action = "comment.create"
	ActionCommentList   Action = "comment.list"

	ActionAuditList Action = "audit.list"
)

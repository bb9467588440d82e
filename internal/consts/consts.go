package consts

const (
	TrackingFile = "focus_state.json"
	FoldersFile  = "focus_folders.json"

	// BatchSize is the number of dialogs moved per remote call.
	BatchSize = 30
)

const (
	FolderTypeFilter   = "DialogFilter"
	FolderTypeChatlist = "DialogFilterChatlist"
)

const (
	ModeArchive   = "archive"
	ModeUnarchive = "unarchive"
)

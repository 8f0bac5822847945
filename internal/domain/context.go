package domain

// ContextSnapshot holds environment data injected into AI prompts.
type ContextSnapshot struct {
	WorkingDir     string
	Shell          string
	OS             string
	User           string
	Files          []FileInfo
	AvailableTools []string
}

// FileInfo is a minimal representation of discovered files.
type FileInfo struct {
	Path string
	Size int64
	Type FileType
}

// FileType describes the type of file entry.
type FileType string

const (
	FileTypeUnknown FileType = "unknown"
	FileTypeFile    FileType = "file"
	FileTypeDir     FileType = "dir"
	FileTypeSymlink FileType = "symlink"
)

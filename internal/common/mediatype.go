package common

import "strings"

// MediaFileType classifies an uploaded blob by its MIME type.
type MediaFileType string

const (
	MediaFileTypeImage MediaFileType = "image"
	MediaFileTypeVideo MediaFileType = "video"
	MediaFileTypeAudio MediaFileType = "audio"
)

func (mft MediaFileType) String() string {
	return string(mft)
}

func (mft MediaFileType) IsValid() bool {
	return mft == MediaFileTypeImage || mft == MediaFileTypeVideo || mft == MediaFileTypeAudio
}

func DetectFileType(mimeType string) MediaFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaFileTypeVideo
	}
	if strings.HasPrefix(lowerMimeType, "audio/") {
		return MediaFileTypeAudio
	}
	return MediaFileTypeImage // default fallback
}

package filemgr

type EntityType string
type PictureType string

const (
	EntityUser    EntityType = "user"
	EntityMessage EntityType = "message"
)

const (
	PicPhoto PictureType = "photo"
	PicAudio PictureType = "audio"
	PicThumb PictureType = "thumb"
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicAudio: {".mp3", ".wav", ".aac", ".ogg", ".webm", ".m4a"},
		PicThumb: {".jpg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicAudio: {"audio/mpeg", "audio/wav", "audio/aac", "audio/ogg", "audio/webm", "audio/mp4"},
		PicThumb: {"image/jpeg"},
	}

	PictureSubfolders = map[PictureType]string{
		PicPhoto: "photo",
		PicAudio: "audio",
		PicThumb: "thumb",
	}
)

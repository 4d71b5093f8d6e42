package telegram

import (
	"encoding/json"

	"github.com/google/uuid"
)

// InputMedia is one item of a media group: InputMediaPhoto,
// InputMediaVideo, InputMediaAnimation, InputMediaAudio or
// InputMediaDocument.
type InputMedia interface {
	// MediaType returns the "type" discriminator sent to Telegram.
	MediaType() string
	inputMedia()
}

// InputMediaPhoto is a photo to be sent.
type InputMediaPhoto struct {
	Media     InputFile `json:"media" validate:"required"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
}

// InputMediaVideo is a video to be sent.
type InputMediaVideo struct {
	Media             InputFile `json:"media" validate:"required"`
	Thumb             InputFile `json:"thumb,omitzero"`
	Caption           string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode         ParseMode `json:"parse_mode,omitempty"`
	Width             int       `json:"width,omitempty"`
	Height            int       `json:"height,omitempty"`
	Duration          int       `json:"duration,omitempty"`
	SupportsStreaming bool      `json:"supports_streaming,omitempty"`
}

// InputMediaAnimation is an animation to be sent.
type InputMediaAnimation struct {
	Media     InputFile `json:"media" validate:"required"`
	Thumb     InputFile `json:"thumb,omitzero"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Duration  int       `json:"duration,omitempty"`
}

// InputMediaAudio is an audio file to be sent.
type InputMediaAudio struct {
	Media     InputFile `json:"media" validate:"required"`
	Thumb     InputFile `json:"thumb,omitzero"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Performer string    `json:"performer,omitempty"`
	Title     string    `json:"title,omitempty"`
}

// InputMediaDocument is a general file to be sent.
type InputMediaDocument struct {
	Media     InputFile `json:"media" validate:"required"`
	Thumb     InputFile `json:"thumb,omitzero"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
}

// MediaType implements InputMedia.
func (InputMediaPhoto) MediaType() string { return "photo" }

// MediaType implements InputMedia.
func (InputMediaVideo) MediaType() string { return "video" }

// MediaType implements InputMedia.
func (InputMediaAnimation) MediaType() string { return "animation" }

// MediaType implements InputMedia.
func (InputMediaAudio) MediaType() string { return "audio" }

// MediaType implements InputMedia.
func (InputMediaDocument) MediaType() string { return "document" }

func (InputMediaPhoto) inputMedia()     {}
func (InputMediaVideo) inputMedia()     {}
func (InputMediaAnimation) inputMedia() {}
func (InputMediaAudio) inputMedia()     {}
func (InputMediaDocument) inputMedia()  {}

// MarshalJSON adds the "type" discriminator.
func (m InputMediaPhoto) MarshalJSON() ([]byte, error) {
	type alias InputMediaPhoto
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MediaType(), alias(m)})
}

// MarshalJSON adds the "type" discriminator.
func (m InputMediaVideo) MarshalJSON() ([]byte, error) {
	type alias InputMediaVideo
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MediaType(), alias(m)})
}

// MarshalJSON adds the "type" discriminator.
func (m InputMediaAnimation) MarshalJSON() ([]byte, error) {
	type alias InputMediaAnimation
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MediaType(), alias(m)})
}

// MarshalJSON adds the "type" discriminator.
func (m InputMediaAudio) MarshalJSON() ([]byte, error) {
	type alias InputMediaAudio
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MediaType(), alias(m)})
}

// MarshalJSON adds the "type" discriminator.
func (m InputMediaDocument) MarshalJSON() ([]byte, error) {
	type alias InputMediaDocument
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MediaType(), alias(m)})
}

// extractMedias moves every upload in media into a separately named
// multipart part and points the item at it with attach://. Items that only
// reference files by id or URL are returned unchanged.
func extractMedias(media []InputMedia) ([]InputMedia, []InputFile) {
	out := make([]InputMedia, len(media))
	var attachments []InputFile
	for i, m := range media {
		var files []InputFile
		out[i], files = extractMedia(m)
		attachments = append(attachments, files...)
	}
	return out, attachments
}

func extractMedia(m InputMedia) (InputMedia, []InputFile) {
	var files []InputFile
	switch v := derefMedia(m).(type) {
	case InputMediaPhoto:
		v.Media = attachUpload(v.Media, &files)
		return v, files
	case InputMediaVideo:
		v.Media = attachUpload(v.Media, &files)
		v.Thumb = attachUpload(v.Thumb, &files)
		return v, files
	case InputMediaAnimation:
		v.Media = attachUpload(v.Media, &files)
		v.Thumb = attachUpload(v.Thumb, &files)
		return v, files
	case InputMediaAudio:
		v.Media = attachUpload(v.Media, &files)
		v.Thumb = attachUpload(v.Thumb, &files)
		return v, files
	case InputMediaDocument:
		v.Media = attachUpload(v.Media, &files)
		v.Thumb = attachUpload(v.Thumb, &files)
		return v, files
	default:
		return m, nil
	}
}

func derefMedia(m InputMedia) InputMedia {
	switch v := m.(type) {
	case *InputMediaPhoto:
		if v != nil {
			return *v
		}
	case *InputMediaVideo:
		if v != nil {
			return *v
		}
	case *InputMediaAnimation:
		if v != nil {
			return *v
		}
	case *InputMediaAudio:
		if v != nil {
			return *v
		}
	case *InputMediaDocument:
		if v != nil {
			return *v
		}
	}
	return m
}

// attachUpload names an upload "attached<uuid>" and records it; other
// files are returned as is.
func attachUpload(f InputFile, files *[]InputFile) InputFile {
	if !f.IsUpload() {
		return f
	}
	f = f.withAttach("attached" + uuid.NewString())
	*files = append(*files, f)
	return f
}

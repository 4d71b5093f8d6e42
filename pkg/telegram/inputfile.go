package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
)

const defaultMIMEType = "application/octet-stream"

// InputFile is a file to send: a file_id already stored by Telegram, an
// HTTP URL Telegram fetches itself, or local content uploaded in a
// multipart request.
type InputFile struct {
	id     FileID
	url    string
	upload *fileUpload
}

type fileUpload struct {
	name     string
	mimeType string
	open     func() (io.ReadCloser, error)
	// attach is the multipart part name referenced as attach://<attach>
	// from inside a JSON-encoded parameter.
	attach string
}

// FileByID references a file already on the Telegram servers.
func FileByID(id FileID) InputFile {
	return InputFile{id: id}
}

// FileByURL lets Telegram download the file from url.
func FileByURL(url string) InputFile {
	return InputFile{url: url}
}

// FileFromPath uploads the file at path. The file is opened when the
// request is encoded.
func FileFromPath(path string) InputFile {
	return InputFile{upload: &fileUpload{
		name: filepath.Base(path),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}}
}

// FileFromReader uploads the content of r under the given file name.
// The reader is consumed once, on the first request using the file.
func FileFromReader(name string, r io.Reader) InputFile {
	return InputFile{upload: &fileUpload{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}}
}

// FileFromBytes uploads data under the given file name.
func FileFromBytes(name string, data []byte) InputFile {
	return InputFile{upload: &fileUpload{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}}
}

// WithMIMEType returns a copy of f whose upload part carries the given
// content type. It has no effect on files referenced by id or URL.
func (f InputFile) WithMIMEType(mimeType string) InputFile {
	if f.upload == nil {
		return f
	}
	u := *f.upload
	u.mimeType = mimeType
	f.upload = &u
	return f
}

// IsUpload reports whether f requires a multipart request.
func (f InputFile) IsUpload() bool { return f.upload != nil }

// IsZero reports whether f references no file.
func (f InputFile) IsZero() bool {
	return f.id == "" && f.url == "" && f.upload == nil
}

// FileName returns the upload file name, or "" for id and URL references.
func (f InputFile) FileName() string {
	if f.upload == nil {
		return ""
	}
	return f.upload.name
}

// String returns the value sent for a non-upload file.
func (f InputFile) String() string {
	switch {
	case f.id != "":
		return string(f.id)
	case f.url != "":
		return f.url
	case f.upload != nil && f.upload.attach != "":
		return "attach://" + f.upload.attach
	default:
		return ""
	}
}

// MarshalJSON encodes the file reference. Uploads marshal as an
// attach:// reference and fail unless they were assigned a part name.
func (f InputFile) MarshalJSON() ([]byte, error) {
	if f.upload != nil && f.upload.attach == "" {
		return nil, errors.New("telegram: upload " + f.upload.name + " has no attach name")
	}
	return json.Marshal(f.String())
}

// withAttach returns a copy of f whose upload is referenced by name.
func (f InputFile) withAttach(name string) InputFile {
	u := *f.upload
	u.attach = name
	f.upload = &u
	return f
}

func (f InputFile) contentType() string {
	if f.upload.mimeType != "" {
		return f.upload.mimeType
	}
	if t := mime.TypeByExtension(filepath.Ext(f.upload.name)); t != "" {
		return t
	}
	return defaultMIMEType
}

package forms

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize caps project image uploads
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is a file received from a multipart form
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// ReadUpload loads the named file from a parsed multipart form.
// It returns nil when the field was left empty. Oversized files are not read.
func ReadUpload(form *multipart.Form, field string) (*Upload, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	header := form.File[field][0]
	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}

	upload := &Upload{Filename: header.Filename, Size: header.Size}
	if header.Size > MaxImageSize {
		return upload, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	upload.Data, err = io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	upload.Size = int64(len(upload.Data))
	upload.ContentType = http.DetectContentType(upload.Data)
	return upload, nil
}

// Check returns a message when the upload is not an acceptable image
func (u *Upload) Check() string {
	if u.Size > MaxImageSize {
		return fmt.Sprintf("Ensure this file is at most %d MB.", MaxImageSize>>20)
	}
	if _, ok := imageExtensions[u.ContentType]; !ok {
		return MsgInvalidImage
	}
	return ""
}

// Extension picks a file extension from the sniffed type, falling back to the filename
func (u *Upload) Extension() string {
	if ext, ok := imageExtensions[u.ContentType]; ok {
		return ext
	}
	return strings.ToLower(filepath.Ext(u.Filename))
}

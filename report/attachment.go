package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// Upload limits enforced by the form's file picker.
const (
	MaxAttachments     = 10
	MaxAttachmentBytes = 10 * 1024 * 1024
)

var (
	ErrTooManyAttachments = errors.New("too many attachments")
	ErrAttachmentTooLarge = errors.New("attachment too large")
)

// Attachment is the metadata of one uploaded file. Its bytes are never embedded.
type Attachment struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	MIMEType  string `json:"mimeType"`
}

// SizeMB returns the size in mebibytes formatted with two decimals.
func (a Attachment) SizeMB() string {
	return fmt.Sprintf("%.2f", float64(a.SizeBytes)/(1024*1024))
}

// TypeOrFallback returns the MIME type or "Não especificado".
func (a Attachment) TypeOrFallback() string {
	if a.MIMEType == "" {
		return "Não especificado"
	}
	return a.MIMEType
}

// AttachmentFromFile stats path on fs and sniffs its MIME type from content.
func AttachmentFromFile(fs afero.Fs, path string) (Attachment, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("stat attachment %s: %w", path, err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("attachment %s is a directory", path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("open attachment %s: %w", path, err)
	}
	defer f.Close()

	att := Attachment{Name: filepath.Base(path), SizeBytes: info.Size()}
	if info.Size() > 0 {
		mt, err := mimetype.DetectReader(f)
		if err != nil {
			return Attachment{}, fmt.Errorf("detect type of %s: %w", path, err)
		}
		att.MIMEType = mt.String()
	}
	return att, nil
}

// ValidateAttachments applies the upload limits.
func ValidateAttachments(list []Attachment) error {
	if len(list) > MaxAttachments {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyAttachments, len(list), MaxAttachments)
	}
	for _, a := range list {
		if a.SizeBytes > MaxAttachmentBytes {
			return fmt.Errorf("%w: %s is %s MB", ErrAttachmentTooLarge, a.Name, a.SizeMB())
		}
	}
	return nil
}

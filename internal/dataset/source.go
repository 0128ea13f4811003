package dataset

import (
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"

	"salespulse/pkg/contracts/domain"
)

// Upload is a caller-supplied CSV replacing a default file
type Upload struct {
	Filename string
	Data     []byte
}

// Sources names where each dataset comes from. A nil upload means the
// default file in DataDir is used.
type Sources struct {
	DataDir  string
	Monthly  *Upload
	Category *Upload
	Product  *Upload
}

func (s Sources) upload(d domain.Dataset) *Upload {
	switch d {
	case domain.DatasetMonthly:
		return s.Monthly
	case domain.DatasetCategory:
		return s.Category
	case domain.DatasetProduct:
		return s.Product
	}
	return nil
}

// HasUploads reports whether any dataset is overridden
func (s Sources) HasUploads() bool {
	return s.Monthly != nil || s.Category != nil || s.Product != nil
}

func (u *Upload) source() string {
	if u.Filename == "" {
		return "upload"
	}
	return "upload:" + u.Filename
}

// fileKey identifies a default file by path and modification signature
func fileKey(d domain.Dataset, path string, info os.FileInfo) string {
	return fmt.Sprintf("%s|file|%s|%d|%d", d, path, info.Size(), info.ModTime().UnixNano())
}

// uploadKey identifies an upload by content digest
func uploadKey(d domain.Dataset, data []byte) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%s|upload|%s", d, hex.EncodeToString(sum[:]))
}

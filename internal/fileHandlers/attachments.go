package fileHandlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxAttachmentSize = 25 << 20 // 25 MiB

// SaveAttachment stores an uploaded "file" form part under ./public/files
// and returns the /cdn/ URL to reference it from a message's fileUrl.
func SaveAttachment(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		return "", err
	}

	formFile, header, err := r.FormFile("file")
	if err != nil {
		return "", err
	}
	defer formFile.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(formFile, maxAttachmentSize))
	if err != nil {
		return "", err
	}

	token, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	fileName := token.String() + ext

	folderPath := filepath.Join(".", "public", "files")
	if err := os.MkdirAll(folderPath, os.ModePerm); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(folderPath, fileName), fileBytes, 0644); err != nil {
		return "", err
	}

	return "/cdn/files/" + fileName, nil
}

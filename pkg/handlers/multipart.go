package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/homewalk-hq/inspect-engine/pkg/media"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// before spilling to temp files.
const maxUploadMemory = 32 << 20

// readImageFiles parses the multipart form and collects every file sent
// under the given field name. The request body is fully read here so the
// service layer works with plain byte slices.
func readImageFiles(r *http.Request, field string) ([]*media.File, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	if r.MultipartForm == nil {
		return nil, fmt.Errorf("multipart form is empty")
	}

	headers := r.MultipartForm.File[field]
	files := make([]*media.File, 0, len(headers))
	for _, header := range headers {
		file, err := readFormFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func readFormFile(header *multipart.FileHeader) (*media.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %q: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %q: %w", header.Filename, err)
	}

	return &media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

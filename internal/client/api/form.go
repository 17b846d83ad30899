package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	upload *pkgapi.Upload
	name   string
}

// Form - multipart/form-data тело запроса. Поля и файлы пишутся в порядке добавления,
// одно имя можно использовать несколько раз (eventDetails).
type Form struct {
	fields []formField
	files  []formFile
}

// NewForm создает пустую форму
func NewForm() *Form {
	return &Form{}
}

// Add добавляет текстовое поле
func (f *Form) Add(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddJSON добавляет поле, закодированное в JSON
func (f *Form) AddJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal form field %s: %w", name, err)
	}
	f.Add(name, string(data))
	return nil
}

// AddFile добавляет файл; nil upload игнорируется
func (f *Form) AddFile(name string, upload *pkgapi.Upload) *Form {
	if upload == nil || upload.Content == nil {
		return f
	}
	f.files = append(f.files, formFile{name: name, upload: upload})
	return f
}

// encode пишет форму в буфер и возвращает Content-Type с boundary
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.upload.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", file.name, err)
		}
		if _, err := io.Copy(part, file.upload.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy file %s: %w", file.upload.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

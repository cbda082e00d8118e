package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/shopspring/decimal"
)

// File is an image chosen for upload.
type File struct {
	Name    string
	Content []byte
}

// ProductPayload is sent as multipart/form-data. A nil Image leaves the image
// part out of the body entirely; the collaborator keeps the stored image.
type ProductPayload struct {
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       *File
}

func encodeProduct(p ProductPayload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"title", p.Title},
		{"price", p.Price.String()},
		{"description", p.Description},
		{"category", p.Category},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("encode product: field %s: %w", f.name, err)
		}
	}

	if p.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, p.Image.Name))
		h.Set("Content-Type", http.DetectContentType(p.Image.Content))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("encode product: image part: %w", err)
		}
		if _, err := part.Write(p.Image.Content); err != nil {
			return nil, "", fmt.Errorf("encode product: image content: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode product: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

type (
	// Amount is a cost as the API sends it. Decimal columns arrive as JSON strings,
	// integer ones as numbers; both are kept as their literal text.
	Amount string

	Product struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Cost        Amount `json:"cost"`
		BannerImage string `json:"banner_image"`
	}

	ListProductsResponse struct {
		Products []Product `json:"products"`
	}

	// Upload is a file forwarded as the banner_image part.
	Upload struct {
		Filename    string
		ContentType string
		Body        io.Reader
	}

	// ProductInput is the multipart payload for create and update.
	ProductInput struct {
		Title       string
		Description string
		Cost        string
		Banner      *Upload
	}

	// Result is the envelope the API wraps mutation answers in. Status is often left out;
	// only an explicit false means the API refused.
	Result struct {
		Status  *bool  `json:"status"`
		Message string `json:"message"`
	}
)

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cost: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string { return string(a) }

// Rejected reports whether a 2xx answer still declined the change.
func (r *Result) Rejected() bool {
	return r.Status != nil && !*r.Status
}

// ListProducts calls GET /products.
func (c *Client) ListProducts(ctx context.Context, token string) ([]Product, error) {
	var out ListProductsResponse
	if err := c.do(ctx, http.MethodGet, "/products", token, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// CreateProduct calls POST /products with a multipart body.
func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*Result, error) {
	return c.sendProduct(ctx, "/products", token, in, false)
}

// UpdateProduct calls POST /products/{id} with _method=PUT so the file part survives;
// PHP does not parse multipart bodies on a real PUT.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int, in ProductInput) (*Result, error) {
	return c.sendProduct(ctx, "/products/"+strconv.Itoa(id), token, in, true)
}

// DeleteProduct calls DELETE /products/{id}.
func (c *Client) DeleteProduct(ctx context.Context, token string, id int) (*Result, error) {
	var out Result
	path := "/products/" + strconv.Itoa(id)
	if err := c.do(ctx, http.MethodDelete, path, token, "", nil, &out); err != nil {
		return nil, err
	}
	if out.Rejected() {
		return nil, &RejectedError{Message: out.Message}
	}
	return &out, nil
}

func (c *Client) sendProduct(ctx context.Context, path, token string, in ProductInput, override bool) (*Result, error) {
	body, contentType, err := encodeProduct(in, override)
	if err != nil {
		return nil, fmt.Errorf("api POST %s: encode: %w", path, err)
	}

	var out Result
	if err := c.do(ctx, http.MethodPost, path, token, contentType, body, &out); err != nil {
		return nil, err
	}
	if out.Rejected() {
		return nil, &RejectedError{Message: out.Message}
	}
	return &out, nil
}

// encodeProduct builds the multipart body. The banner_image part is only present when a file was chosen.
func encodeProduct(in ProductInput, override bool) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	fields := [][2]string{
		{"title", in.Title},
		{"description", in.Description},
		{"cost", in.Cost},
	}
	if override {
		fields = append(fields, [2]string{"_method", http.MethodPut})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if in.Banner != nil {
		part, err := createFilePart(mw, "banner_image", in.Banner)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, in.Banner.Body); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

// quoteEscaper matches the escaping mime/multipart applies in CreateFormFile.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createFilePart(mw *multipart.Writer, field string, u *Upload) (io.Writer, error) {
	if u.ContentType == "" {
		return mw.CreateFormFile(field, u.Filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(u.Filename)))
	h.Set("Content-Type", u.ContentType)
	return mw.CreatePart(h)
}

// Package uploader is the HTTP transport of the command line client. It
// uploads files as gzip compressed, signed multipart forms and downloads the
// results.
package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mailru/easyjson"
	"go.uber.org/zap"

	"huffpress/internal/api/compressdto"
	"huffpress/internal/compress"
	"huffpress/internal/retry"
	"huffpress/internal/signature"
)

const (
	fileField       = "file"
	percentageField = "compression_percentage"

	requestTimeout = 5 * time.Minute
)

// ErrBadSignature is returned when a response does not carry a valid
// HashSHA256 header although a key is configured.
var ErrBadSignature = errors.New("response signature mismatch")

type Uploader struct {
	client *resty.Client
	key    []byte
	retry  retry.RetryConfig
	log    *zap.SugaredLogger
}

// New returns an Uploader for the server at baseURL. key may be empty.
func New(baseURL, key string, attempts int, log *zap.SugaredLogger) *Uploader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := retry.DefaultConfig().WithAttempts(attempts)
	cfg.OnRetry = func(err error, attempt int, delay time.Duration) {
		log.Warnw("request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}

	return &Uploader{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(requestTimeout),
		key:    []byte(key),
		retry:  cfg,
		log:    log,
	}
}

// WithDelays replaces the pauses between attempts.
func (u *Uploader) WithDelays(delays ...time.Duration) *Uploader {
	u.retry.Delays = delays
	return u
}

// WithRealIP sends ip in X-Real-IP with every request.
func (u *Uploader) WithRealIP(ip string) *Uploader {
	if ip != "" {
		u.client.SetHeader("X-Real-IP", ip)
	}
	return u
}

// Compress uploads data to /compress. An empty percentage uses the server
// default.
func (u *Uploader) Compress(ctx context.Context, filename string, data []byte, percentage string) (compressdto.CompressResponse, error) {
	fields := map[string]string{}
	if percentage != "" {
		fields[percentageField] = percentage
	}

	var resp compressdto.CompressResponse
	err := u.upload(ctx, "/compress", filename, data, fields, &resp)
	return resp, err
}

// Decompress uploads an artifact to /decompress.
func (u *Uploader) Decompress(ctx context.Context, filename string, data []byte) (compressdto.DecompressResponse, error) {
	var resp compressdto.DecompressResponse
	err := u.upload(ctx, "/decompress", filename, data, nil, &resp)
	return resp, err
}

// Download fetches a stored file.
func (u *Uploader) Download(ctx context.Context, name string) ([]byte, error) {
	return u.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return u.client.R().
			SetContext(ctx).
			SetPathParam("filename", name).
			Get("/download/{filename}")
	})
}

// Process compresses (or, with decompress set, restores) the file at path
// and saves the server's result in outDir. It returns the saved path.
func (u *Uploader) Process(ctx context.Context, path string, decompress bool, percentage, outDir string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	name := filepath.Base(path)

	var result string
	if decompress {
		resp, err := u.Decompress(ctx, name, data)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", name, err)
		}
		result = resp.DecompressedFilename
		u.log.Infow("file decompressed", "filename", name, "restored", result, "size", resp.Size)
	} else {
		resp, err := u.Compress(ctx, name, data, percentage)
		if err != nil {
			return "", fmt.Errorf("compress %s: %w", name, err)
		}
		result = resp.CompressedFilename
		u.log.Infow("file compressed",
			"filename", name,
			"artifact", result,
			"path", resp.Path,
			"original_size", resp.OriginalSize,
			"compressed_size", resp.CompressedSize,
			"ratio", resp.CompressionPercentage,
		)
	}

	out, err := u.Download(ctx, result)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", result, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	dst := filepath.Join(outDir, filepath.Base(result))
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return dst, nil
}

func (u *Uploader) upload(ctx context.Context, path, filename string, data []byte, fields map[string]string, out easyjson.Unmarshaler) error {
	body, contentType, err := multipartBody(filename, data, fields)
	if err != nil {
		return err
	}
	gz, err := compress.Compress(body)
	if err != nil {
		return err
	}

	raw, err := u.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		req := u.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", contentType).
			SetHeader("Content-Encoding", "gzip").
			SetBody(gz)
		if len(u.key) > 0 {
			req.SetHeader(signature.Header, signature.Sign(gz, u.key))
		}
		return req.Post(path)
	})
	if err != nil {
		return err
	}

	if err := easyjson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do sends a request with retries and checks the status and signature of
// the response.
func (u *Uploader) do(ctx context.Context, send func(context.Context) (*resty.Response, error)) ([]byte, error) {
	return retry.Do(ctx, u.retry, func(ctx context.Context) ([]byte, error) {
		resp, err := send(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, &retry.StatusError{Code: resp.StatusCode(), Message: errorMessage(resp.Body())}
		}

		body := resp.Body()
		if len(u.key) > 0 && !signature.Verify(body, u.key, resp.Header().Get(signature.Header)) {
			return nil, ErrBadSignature
		}
		return body, nil
	})
}

func errorMessage(body []byte) string {
	var e compressdto.ErrorResponse
	if err := easyjson.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func multipartBody(filename string, data []byte, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
